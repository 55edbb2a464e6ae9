package scene

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/rwmerge/pkg/rw"
)

// Source is one uploaded file.
type Source interface {
	ID() string
	ReadAll(ctx context.Context) ([]byte, error)
}

// FileSource reads a file from disk.
type FileSource string

// ID returns the file's base name.
func (f FileSource) ID() string {
	return filepath.Base(string(f))
}

// ReadAll reads the whole file.
func (f FileSource) ReadAll(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(string(f))
}

// BytesSource is an in-memory file.
type BytesSource struct {
	Name string
	Data []byte
}

// ID returns the source name.
func (b BytesSource) ID() string {
	return b.Name
}

// ReadAll returns the data.
func (b BytesSource) ReadAll(ctx context.Context) ([]byte, error) {
	return b.Data, ctx.Err()
}

// Pipeline turns uploaded model and texture files into a MergedScene.
type Pipeline struct {
	Decoder rw.Decoder
	Merge   MergeOptions
	Logger  *zap.Logger
}

// NewPipeline returns a pipeline that reads record dumps with default spacing.
func NewPipeline(log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		Decoder: rw.DumpDecoder{MaxInflated: rw.DefaultMaxInflated},
		Merge:   MergeOptions{Spacing: DefaultSpacing, Logger: log},
		Logger:  log,
	}
}

// Build processes models then textures, one file at a time in the given
// order. A file that fails is recorded in PerFileStatus and the rest
// continue. Each file is keyed by its ID; a repeated ID gets a #N suffix
// (player.dff.json#2) so no two uploads share a status entry or SourceTag.
// Build only returns an error when ctx is done between files.
func (p *Pipeline) Build(ctx context.Context, models, textures []Source) (*MergedScene, error) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	dec := p.Decoder
	if dec == nil {
		dec = rw.DumpDecoder{MaxInflated: rw.DefaultMaxInflated}
	}

	scene := &MergedScene{
		ID:            uuid.New(),
		PerFileStatus: make(map[string]FileStatus, len(models)+len(textures)),
	}
	used := make(map[string]bool, len(models)+len(textures))
	assign := func(src Source) string {
		return uniqueID(used, src.ID())
	}
	record := func(id string, st FileStatus) {
		if _, dup := scene.PerFileStatus[id]; !dup {
			scene.FileOrder = append(scene.FileOrder, id)
		}
		scene.PerFileStatus[id] = st
	}

	var files []ModelFile
	for i, src := range models {
		id := assign(src)
		rec, err := p.decode(ctx, dec, src)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("model file rejected", zap.String("file", id), zap.Error(err))
			record(id, FileStatus{Kind: KindModel, Error: err.Error()})
			continue
		}
		files = append(files, ModelFile{ID: id, FileIndex: i, Record: rec})
		// Reserve the upload-order slot; MergeModels fills in the outcome.
		record(id, FileStatus{Kind: KindModel, Parsed: true})
	}

	opts := p.Merge
	if opts.Logger == nil {
		opts.Logger = log
	}
	merged := MergeModels(files, opts)
	for _, f := range files {
		record(f.ID, merged.Status[f.ID])
	}
	for _, payload := range merged.Payloads {
		scene.Geometries = append(scene.Geometries, BuildGeometry(payload, log))
	}

	var dicts []TextureDictionary
	for i, src := range textures {
		id := assign(src)
		rec, err := p.decode(ctx, dec, src)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("texture file rejected", zap.String("file", id), zap.Error(err))
			record(id, FileStatus{Kind: KindTextures, Error: err.Error()})
			continue
		}
		if len(Natives(rec)) == 0 {
			log.Warn("no texture natives found", zap.String("file", id))
			record(id, FileStatus{Kind: KindTextures, Error: "no textures found"})
			continue
		}
		dicts = append(dicts, TextureDictionary{ID: id, FileIndex: i, Record: rec})
		record(id, FileStatus{Kind: KindTextures, Parsed: true})
	}
	scene.Textures = MergeTextureDictionaries(dicts, log)

	log.Info("scene built",
		zap.String("scene", scene.ID.String()),
		zap.Int("geometries", len(scene.Geometries)),
		zap.Int("submeshes", scene.SubMeshCount()),
		zap.Int("textures", scene.Textures.Len()))

	return scene, nil
}

func (p *Pipeline) decode(ctx context.Context, dec rw.Decoder, src Source) (rw.Record, error) {
	data, err := src.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src.ID(), err)
	}
	rec, err := dec.Decode(data)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// uniqueID returns id, or id#N with the smallest N >= 2 not yet used, and
// marks the result as used.
func uniqueID(used map[string]bool, id string) string {
	out := id
	for n := 2; used[out]; n++ {
		out = fmt.Sprintf("%s#%d", id, n)
	}
	used[out] = true
	return out
}
