package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/rwmerge/pkg/math"
	"github.com/Faultbox/rwmerge/pkg/rw"
)

// DefaultSpacing is the distance between consecutive merged files.
const DefaultSpacing float32 = 5

// ModelFile is one decoded model record and its upload position.
// ID must be unique among the files of one merge.
type ModelFile struct {
	ID        string
	FileIndex int
	Record    rw.Record
}

// MergeOptions controls where merged files are placed.
type MergeOptions struct {
	Spacing float32
	Axis    math.Axis
	Logger  *zap.Logger
}

// MergeResult holds the combined payloads of all files.
type MergeResult struct {
	Payloads []Payload
	Status   map[string]FileStatus
}

// Offset returns the translation applied to file fileIndex.
func (o MergeOptions) Offset(fileIndex int) math.Vec3 {
	return o.Axis.Unit().Scale(float32(fileIndex) * o.Spacing)
}

// MergeModels resolves every file's geometries, moves each file by
// FileIndex*Spacing along Axis and concatenates the payloads in order.
// Files without geometry are reported in Status and otherwise ignored.
func MergeModels(files []ModelFile, opts MergeOptions) MergeResult {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	res := MergeResult{Status: make(map[string]FileStatus, len(files))}
	for _, f := range files {
		payloads, shape := ResolveGeometries(f.Record)
		if len(payloads) == 0 {
			log.Warn("no geometry found", zap.String("file", f.ID))
			res.Status[f.ID] = FileStatus{Kind: KindModel, Error: ErrMissingGeometry.Error()}
			continue
		}

		offset := opts.Offset(f.FileIndex)
		for _, p := range payloads {
			p = translate(p, offset)
			p.SourceTag = f.ID
			res.Payloads = append(res.Payloads, p)
		}

		log.Debug("merged model",
			zap.String("file", f.ID),
			zap.String("shape", shape),
			zap.Int("geometries", len(payloads)),
			zap.Float32("offset", offset.Component(opts.Axis)))
		res.Status[f.ID] = FileStatus{Kind: KindModel, Parsed: true}
	}
	return res
}
