// Package assets implements the ref-counted texture asset handle and
// path-keyed loader described in SPEC_FULL.md §4.C. Loading is
// deduplicated across concurrent callers with golang.org/x/sync/singleflight
// and decoded off the frame-loop goroutine with the teacher's own worker
// pool (github.com/Carmen-Shannon/automation/tools/worker), matching
// §5's requirement that one-shot asset uploads block on their own fence
// rather than stall the frame loop.
package assets

import (
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"golang.org/x/sync/singleflight"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oxy2d/engine/identifier"
)

// LoadError enumerates §4.C's asset-loading error tier.
type LoadError int

const (
	BadAssetPath LoadError = iota
	InvalidAssetFormat
	AmbiguousAssetPath
	AssetNotFound
	AssetTypeMismatch
)

func (e LoadError) Error() string {
	switch e {
	case BadAssetPath:
		return "assets: bad asset path"
	case InvalidAssetFormat:
		return "assets: invalid asset format"
	case AmbiguousAssetPath:
		return "assets: ambiguous asset path"
	case AssetNotFound:
		return "assets: asset not found"
	case AssetTypeMismatch:
		return "assets: asset type mismatch"
	default:
		return "assets: unknown load error"
	}
}

// Path is a two-part asset path, grounded on the original engine's
// Retro_AssetPath{package_name, asset_name}: two interned identifiers
// rather than a bare string, so a malformed or over-length component is
// rejected by identifier.Intern before any filesystem access happens.
type Path struct {
	Package identifier.Identifier
	Name    identifier.Identifier
}

// NewPath interns pkg and name into a Path. Returns BadAssetPath if
// either component fails to intern (e.g. exceeds identifier.MaxLength).
func NewPath(pkg, name string) (Path, error) {
	p, err := identifier.Intern(pkg)
	if err != nil {
		return Path{}, BadAssetPath
	}
	n, err := identifier.Intern(name)
	if err != nil {
		return Path{}, BadAssetPath
	}
	return Path{Package: p, Name: n}, nil
}

func (p Path) String() string {
	return filepath.Join(identifier.Display(p.Package), identifier.Display(p.Name))
}

// GPUResources is the opaque, backend-owned set of GPU-side handles a
// Texture carries once uploaded. The concrete fields are populated by
// the renderer backend (bind_group_provider); assets itself only carries
// the pointer and a release hook so it stays GPU-API-agnostic.
type GPUResources struct {
	View    *wgpu.TextureView
	Sampler *wgpu.Sampler

	// Release is called exactly once, when the last Handle referencing
	// this Texture is dropped. Nil for a CPU-only (not yet uploaded)
	// texture.
	Release func()
}

// Texture is the asset loaded for a texture path: pixel bytes,
// dimensions, and — once uploaded — GPU resources. A Texture is never
// bound into a draw command while gpu is nil.
type Texture struct {
	Pixels []byte
	Width  uint32
	Height uint32

	mu  sync.Mutex
	gpu *GPUResources
}

// Uploaded reports whether t has GPU-side resources attached.
func (t *Texture) Uploaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gpu != nil
}

// AttachGPU installs the GPU resources produced by a successful upload.
func (t *Texture) AttachGPU(r *GPUResources) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gpu = r
}

// GPU returns the texture's GPU resources, or nil if not yet uploaded.
func (t *Texture) GPU() *GPUResources {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gpu
}

func (t *Texture) releaseGPU() {
	t.mu.Lock()
	r := t.gpu
	t.gpu = nil
	t.mu.Unlock()
	if r != nil && r.Release != nil {
		r.Release()
	}
}

// Handle is a ref-counted, copyable, droppable pointer to a Texture.
// Ref-count operations are atomic; equality follows pointer identity,
// matching §4.C's RefCountPtr<Asset> contract.
type Handle struct {
	asset *asset
}

type asset struct {
	path    Path
	texture *Texture
	refs    atomic.Int64
}

// Retain returns a new strong reference to the same underlying Texture,
// incrementing the ref count.
func (h Handle) Retain() Handle {
	if h.asset == nil {
		return Handle{}
	}
	h.asset.refs.Add(1)
	return h
}

// Release decrements the ref count, releasing the Texture's GPU
// resources and evicting it from the loader cache when the count reaches
// zero. Release is idempotent on a zero Handle.
func (h Handle) Release(l *Loader) {
	if h.asset == nil {
		return
	}
	if h.asset.refs.Add(-1) == 0 {
		l.evict(h.asset)
		h.asset.texture.releaseGPU()
	}
}

// Texture returns the underlying Texture, or nil for a zero Handle.
func (h Handle) Texture() *Texture {
	if h.asset == nil {
		return nil
	}
	return h.asset.texture
}

// Equal reports whether h and other reference the same underlying asset.
func (h Handle) Equal(other Handle) bool {
	return h.asset == other.asset
}

// Loader loads textures by Path from an fs-rooted directory tree, caching
// by path so repeated loads of the same path return a new strong
// reference without re-reading or re-decoding the file.
type Loader struct {
	root string

	mu    sync.Mutex
	cache map[Path]*asset

	sf   singleflight.Group
	pool worker.DynamicWorkerPool
}

// NewLoader constructs a Loader rooted at dir, with a bounded worker pool
// for off-thread pixel decode.
func NewLoader(dir string) *Loader {
	return &Loader{
		root:  dir,
		cache: make(map[Path]*asset),
		pool:  worker.NewDynamicWorkerPool(4, 256, 0),
	}
}

// Load loads the texture named by path, decoding off the frame-loop
// goroutine via the worker pool and blocking the caller until the decode
// completes — matching §5's "one-shot asset uploads block on their own
// transient fence before returning". Concurrent callers racing the same
// cache miss share one decode via singleflight.
func (l *Loader) Load(path Path) (Handle, error) {
	l.mu.Lock()
	if a, ok := l.cache[path]; ok {
		a.refs.Add(1)
		l.mu.Unlock()
		return Handle{asset: a}, nil
	}
	l.mu.Unlock()

	v, err, _ := l.sf.Do(path.String(), func() (any, error) {
		tex, decodeErr := l.decodeAsync(path)
		if decodeErr != nil {
			return nil, decodeErr
		}
		a := &asset{path: path, texture: tex}
		l.mu.Lock()
		l.cache[path] = a
		l.mu.Unlock()
		return a, nil
	})
	if err != nil {
		return Handle{}, err
	}
	// sf.Do hands the same *asset to every goroutine that raced this
	// path's decode; each one (leader and followers alike) takes its own
	// ref here, so the ref count always matches the number of Handles
	// actually handed out.
	a := v.(*asset)
	a.refs.Add(1)
	return Handle{asset: a}, nil
}

func (l *Loader) evict(a *asset) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.cache[a.path]; ok && cached == a {
		delete(l.cache, a.path)
	}
}

// decodeAsync submits the file read + pixel decode to the worker pool and
// blocks until it completes, returning the decoded Texture.
func (l *Loader) decodeAsync(path Path) (*Texture, error) {
	type result struct {
		tex *Texture
		err error
	}
	done := make(chan result, 1)

	task := worker.Task{
		Execute: func() {
			tex, err := l.decode(path)
			done <- result{tex: tex, err: err}
		},
	}
	if err := l.pool.SubmitTask(task); err != nil {
		// Pool saturated or shut down: decode synchronously rather than
		// fail the load outright.
		tex, err := l.decode(path)
		return tex, err
	}

	r := <-done
	return r.tex, r.err
}

func (l *Loader) decode(path Path) (*Texture, error) {
	full := filepath.Join(l.root, identifier.Display(path.Package), identifier.Display(path.Name))
	candidates, err := filepath.Glob(full + ".*")
	if err != nil {
		return nil, AssetNotFound
	}
	if len(candidates) == 0 {
		if _, statErr := os.Stat(full); statErr == nil {
			candidates = []string{full}
		} else {
			return nil, AssetNotFound
		}
	}
	if len(candidates) > 1 {
		return nil, AmbiguousAssetPath
	}

	f, err := os.Open(candidates[0])
	if err != nil {
		return nil, AssetNotFound
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, InvalidAssetFormat
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	return &Texture{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}

