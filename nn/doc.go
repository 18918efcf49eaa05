// Copyright 2025 Descent ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the parameter and module containers the optimizer
// engine iterates over.
//
// A Parameter couples a data array with its gradient and an optional loss
// scale. A Module enumerates parameters in a stable order; Chain composes
// modules, and Linear is a minimal fully-connected layer holding a weight
// and a bias.
package nn
