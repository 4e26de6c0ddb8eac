package core

import "fmt"

// ShaderStage identifies where a shader build failed.
type ShaderStage string

const (
	StageVertex   ShaderStage = "vertex"
	StageFragment ShaderStage = "fragment"
	StageLink     ShaderStage = "link"
)

// ShaderError is a compile or link failure with the driver's info log.
type ShaderError struct {
	Stage ShaderStage
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("%s shader: %s", e.Stage, e.Log)
}

// ResourceCreationError reports a failed buffer, texture or sampler allocation.
type ResourceCreationError struct {
	Resource string
	Err      error
}

func (e *ResourceCreationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("create %s failed", e.Resource)
	}
	return fmt.Sprintf("create %s: %v", e.Resource, e.Err)
}

func (e *ResourceCreationError) Unwrap() error { return e.Err }

// AssetLoadFailure reports a mesh or texture that could not be loaded.
type AssetLoadFailure struct {
	Path string
	Err  error
}

func (e *AssetLoadFailure) Error() string {
	return fmt.Sprintf("load asset %q: %v", e.Path, e.Err)
}

func (e *AssetLoadFailure) Unwrap() error { return e.Err }
