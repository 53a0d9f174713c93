// Package reconcile drives resources toward a desired state with
// existence-level checks: a resource that already exists is left untouched
// rather than diffed against the requested manifest.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hciops/harvesterctl/internal/harvester"
)

// Client is the slice of the API surface a reconciler needs for one kind.
type Client[T any] interface {
	Get(ctx context.Context, namespace, name string) (*T, error)
	Create(ctx context.Context, namespace string, obj *T) (*T, error)
	Delete(ctx context.Context, namespace, name string) error
}

// Result reports one reconciliation outcome.
type Result[T any] struct {
	// Changed is true when the remote state was (or, under dry-run, would
	// have been) modified.
	Changed bool

	// Resource is the manifest after reconciliation: the server's copy when
	// one exists, or the locally built manifest under dry-run.
	Resource *T

	// Message is a human-readable summary of what happened.
	Message string
}

// Reconciler converges one resource kind. Kind is the label used in result
// messages ("VM", "Volume", "Network", "Image").
type Reconciler[T any] struct {
	Kind   string
	Client Client[T]
	DryRun bool
	Log    *slog.Logger
}

// NewReconciler builds a reconciler for one kind. A nil logger disables
// logging.
func NewReconciler[T any](kind string, client Client[T], dryRun bool, log *slog.Logger) *Reconciler[T] {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reconciler[T]{Kind: kind, Client: client, DryRun: dryRun, Log: log}
}

type observation[T any] struct {
	exists   bool
	resource *T
}

// probe looks up the current state. Not-found is an observation, not an
// error.
func (r *Reconciler[T]) probe(ctx context.Context, namespace, name string) (observation[T], error) {
	obj, err := r.Client.Get(ctx, namespace, name)
	if err != nil {
		if harvester.IsNotFound(err) {
			return observation[T]{}, nil
		}
		return observation[T]{}, err
	}
	return observation[T]{exists: true, resource: obj}, nil
}

// Ensure creates the resource when it is absent. build is only invoked on
// the create path, so configs that are incomplete for creation still allow
// operating on existing resources. Under dry-run the built manifest is
// returned without being sent.
func (r *Reconciler[T]) Ensure(ctx context.Context, namespace, name string, build func() (*T, error)) (*Result[T], error) {
	obs, err := r.probe(ctx, namespace, name)
	if err != nil {
		return nil, err
	}

	if obs.exists {
		return &Result[T]{
			Resource: obs.resource,
			Message:  fmt.Sprintf("%s '%s' already exists", r.Kind, name),
		}, nil
	}

	manifest, err := build()
	if err != nil {
		return nil, err
	}

	if r.DryRun {
		return &Result[T]{
			Changed:  true,
			Resource: manifest,
			Message:  fmt.Sprintf("%s '%s' created", r.Kind, name),
		}, nil
	}

	created, err := r.Client.Create(ctx, namespace, manifest)
	if err != nil {
		return nil, err
	}
	r.Log.Info("resource created", "kind", r.Kind, "namespace", namespace, "name", name)
	return &Result[T]{
		Changed:  true,
		Resource: created,
		Message:  fmt.Sprintf("%s '%s' created", r.Kind, name),
	}, nil
}

// EnsureAbsent deletes the resource when it exists.
func (r *Reconciler[T]) EnsureAbsent(ctx context.Context, namespace, name string) (*Result[T], error) {
	obs, err := r.probe(ctx, namespace, name)
	if err != nil {
		return nil, err
	}

	if !obs.exists {
		return &Result[T]{
			Message: fmt.Sprintf("%s '%s' does not exist", r.Kind, name),
		}, nil
	}

	if !r.DryRun {
		if err := r.Client.Delete(ctx, namespace, name); err != nil {
			return nil, err
		}
		r.Log.Info("resource deleted", "kind", r.Kind, "namespace", namespace, "name", name)
	}
	return &Result[T]{
		Changed: true,
		Message: fmt.Sprintf("%s '%s' deleted", r.Kind, name),
	}, nil
}
