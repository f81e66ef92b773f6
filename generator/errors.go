package generator

import (
	"errors"
	"fmt"
)

// ErrNoSources is returned when the loaded manifests declare no entity to generate.
var ErrNoSources = errors.New("no entity declarations to generate")

// Stage names the pipeline step an entity failed in.
type Stage string

const (
	StageCollect Stage = "collect"
	StageEmit    Stage = "emit"
	StageWrite   Stage = "write"
)

// EntityError reports the failure of one entity. Other entities of the same run are unaffected.
type EntityError struct {
	Entity string
	Stage  Stage
	Err    error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Entity, e.Stage, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}
