// Copyright 2025 MediaGenAI, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cor (Chain of Responsibility) provides the building blocks for
// expressing pipelines as ordered sequences of commands that share a single
// state context. The trailer pipeline's stages are cor commands; the job
// orchestrator assembles them into a chain and executes it once per job.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the reserved keys used for piping data between
// commands: a chain moves whatever a command left under CtxOut into CtxIn
// before running the next command.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the shared state object passed through a chain. It carries
// arbitrary key-value data, errors keyed by the command that raised them,
// temp-file bookkeeping, and the request-scoped Go context.
type Context interface {
	// SetContext and GetContext manage the standard Go context, which
	// carries cancellation and trace propagation.
	SetContext(context context.Context)
	GetContext() context.Context

	// Add stores a value; it returns the Context for fluent chaining.
	Add(key string, value interface{}) Context

	// Get retrieves a value, or nil when the key is absent.
	Get(key string) interface{}

	// Remove deletes a key.
	Remove(key string)

	// AddError records a command failure under the command's name.
	AddError(key string, err error)
	GetErrors() map[string]error
	HasErrors() bool

	// AddTempFile tracks a temporary file for cleanup at Close.
	AddTempFile(file string)
	GetTempFiles() []string

	// Close removes all tracked temp files. Defer it at workflow start.
	Close()
}

// Executable is anything with a core execution step.
type Executable interface {
	Execute(context Context)
}

// Command is an atomic, reusable unit of work within a chain. Commands
// read their input from the context, do one thing, and write their output
// back. Each command carries its own tracer and counters.
type Command interface {
	Executable

	// GetName identifies the command in logs, traces, and error maps.
	GetName() string

	// GetInputParam and GetOutputParam name the context keys the command
	// reads from and writes to. Both default to the piping keys.
	GetInputParam() string
	GetOutputParam() string

	// IsExecutable is the precondition check a chain runs before Execute.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command,
// so chains nest.
type Chain interface {
	Command

	// ContinueOnFailure controls whether the chain keeps executing after
	// a command records an error. Default is to stop.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
