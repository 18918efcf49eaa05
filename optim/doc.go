// Copyright 2025 Descent ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the Descent parameter-update engine: chained
// hyperparameters, per-parameter update rules with device-aware state,
// ordered hooks, and the SGD, MomentumSGD, and Adam gradient methods.
//
// # Basic Usage
//
//	import (
//	    "github.com/descent-ml/descent/nn"
//	    "github.com/descent-ml/descent/optim"
//	)
//
//	func train(model nn.Module) error {
//	    opt := optim.NewSGD(0.01)
//	    opt.Setup(model)
//	    for range steps {
//	        computeGradients(model)
//	        if err := opt.Update(); err != nil {
//	            return err
//	        }
//	    }
//	    return nil
//	}
//
// # Hyperparameter Chains
//
// Every gradient method owns a hyperparameter node; every update rule owns a
// child node chained to it. Reads fall back along the chain, so a value set
// on the method applies to all parameters until a rule shadows it:
//
//	opt.Hyperparam().Set("lr", 0.01)
//	opt.Rule(param).Hyperparam().Set("lr", 0.1) // this parameter only
package optim
