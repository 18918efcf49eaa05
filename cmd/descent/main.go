// Package main provides the Descent ML Framework CLI.
package main

import (
	"fmt"
	"os"

	"github.com/descent-ml/descent/nn"
	"github.com/descent-ml/descent/optim"
	"github.com/descent-ml/descent/tensor"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Descent ML Framework %s\n", version)
			return
		case "demo":
			if err := runDemo(); err != nil {
				fmt.Fprintf(os.Stderr, "descent: %v\n", err)
				os.Exit(1)
			}
			return
		case "config":
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, "descent: config requires a file argument")
				os.Exit(1)
			}
			if err := showConfig(os.Args[2]); err != nil {
				fmt.Fprintf(os.Stderr, "descent: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("Descent ML Framework - Parameter Optimization for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version        Show version")
	fmt.Println("  demo           Minimize a quadratic with SGD")
	fmt.Println("  config <file>  Print the resolved hyperparameter sets of a YAML config")
}

// runDemo minimizes f(x) = sum(x^2)/2 by gradient descent; the gradient of f
// is x itself, so each step shrinks the parameter toward zero.
func runDemo() error {
	data, err := tensor.FromFloat32([]float32{4, -3, 2, -1}, tensor.Shape{4})
	if err != nil {
		return err
	}
	param := nn.NewParameter("x", data)
	model := nn.NewChain()
	model.Add(paramModule{param})

	opt := optim.NewSGD(0.1)
	opt.Setup(model)

	for step := 0; step < 20; step++ {
		vals, err := param.Data().Float64s()
		if err != nil {
			return err
		}
		grad, err := tensor.FromFloat64(vals, param.Data().Shape(), param.Data().DType())
		if err != nil {
			return err
		}
		param.SetGrad(grad)
		if err := opt.Update(); err != nil {
			return err
		}
	}

	final, err := param.Data().Float64s()
	if err != nil {
		return err
	}
	fmt.Printf("after %d SGD steps: %v\n", opt.T(), final)
	return nil
}

type paramModule struct {
	param *nn.Parameter
}

func (m paramModule) Parameters() []*nn.Parameter {
	return []*nn.Parameter{m.param}
}

func showConfig(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cfg, err := optim.LoadConfig(f)
	if err != nil {
		return err
	}

	fmt.Printf("defaults: %s\n", cfg.Defaults())
	for _, name := range cfg.Methods() {
		node, err := cfg.Hyperparameter(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", name, node)
	}
	return nil
}
