package composer

import (
	"context"
	"errors"

	"heliscene/core"
	"heliscene/scene"
)

type assetKind int

const (
	assetHeli assetKind = iota
	assetPropeller
	assetHeightmap
)

func (k assetKind) String() string {
	switch k {
	case assetHeli:
		return "helicopter"
	case assetPropeller:
		return "propeller"
	case assetHeightmap:
		return "heightmap"
	}
	return "asset"
}

// assetResult is produced by a loader goroutine and consumed on the render
// thread, where the GPU upload happens.
type assetResult struct {
	kind      assetKind
	path      string
	subs      []scene.SubMesh
	heightmap *scene.Heightmap
	err       error
}

// LoadAssets starts one loader goroutine per configured asset path. Results
// are applied at the start of the following ticks.
func (c *Composer) LoadAssets(ctx context.Context) {
	jobs := []struct {
		kind assetKind
		path string
	}{
		{assetHeli, c.cfg.HeliPath},
		{assetPropeller, c.cfg.PropellerPath},
		{assetHeightmap, c.cfg.HeightmapPath},
	}
	for _, j := range jobs {
		if j.path == "" {
			continue
		}
		c.pending++
		go c.load(ctx, j.kind, j.path)
	}
}

func (c *Composer) load(ctx context.Context, kind assetKind, path string) {
	res := assetResult{kind: kind, path: path}
	if kind == assetHeightmap {
		res.heightmap, res.err = scene.LoadHeightmap(path)
	} else {
		res.subs, res.err = scene.LoadModel(path)
	}
	select {
	case c.assets <- res:
	case <-ctx.Done():
	}
}

// PendingAssets reports how many started loads have not been applied yet.
func (c *Composer) PendingAssets() int {
	return c.pending
}

func (c *Composer) drainAssets() {
	for {
		select {
		case res := <-c.assets:
			c.pending--
			c.applyAsset(res)
		default:
			return
		}
	}
}

func (c *Composer) applyAsset(res assetResult) {
	if res.err != nil {
		var lf *core.AssetLoadFailure
		if !errors.As(res.err, &lf) {
			res.err = &core.AssetLoadFailure{Path: res.path, Err: res.err}
		}
		c.logger.Printf("%s: %v", res.kind, res.err)
		return
	}

	var err error
	switch res.kind {
	case assetHeli:
		err = c.heli.InitFromSubMeshes(c.dev, res.subs)
	case assetPropeller:
		err = c.propeller.InitFromSubMeshes(c.dev, res.subs)
	case assetHeightmap:
		if c.terrain == nil {
			return
		}
		err = c.terrain.SetHeightmap(c.dev, res.heightmap)
	}
	if err != nil {
		c.logger.Printf("%s: %v", res.kind, err)
		return
	}
	c.logger.Printf("loaded %s from %s", res.kind, res.path)
}
