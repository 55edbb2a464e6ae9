package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mauserzjeh/dxt"
	"go.uber.org/zap"

	"github.com/Faultbox/rwmerge/pkg/rw"
)

// Texture errors.
var (
	ErrInvalidDimensions = errors.New("invalid texture dimensions")
	ErrNoMipLevel        = errors.New("texture has no mip level")
	ErrPixelFormat       = errors.New("pixel data is not convertible to RGBA")
)

// TextureRecord is one RGBA texture.
type TextureRecord struct {
	Name   string
	Width  int
	Height int
	Pixels []byte // RGBA, Width*Height*4 bytes

	Key         string // effective de-duplication key
	FileIndex   int
	NativeIndex int
}

// TextureKey returns the effective key of a native: its name, or
// "fileIndex:nativeIndex" when the name is empty.
func TextureKey(name string, fileIndex, nativeIndex int) string {
	if name != "" {
		return name
	}
	return strconv.Itoa(fileIndex) + ":" + strconv.Itoa(nativeIndex)
}

// TextureSet is an ordered list of textures, unique by effective key.
// The zero value is an empty set ready to use.
type TextureSet struct {
	records []TextureRecord
	keys    map[string]int
}

// Add appends rec unless its key is already present. It reports whether
// rec was added.
func (s *TextureSet) Add(rec TextureRecord) bool {
	if rec.Key == "" {
		rec.Key = TextureKey(rec.Name, rec.FileIndex, rec.NativeIndex)
	}
	if s.keys == nil {
		s.keys = make(map[string]int)
	}
	if _, seen := s.keys[rec.Key]; seen {
		return false
	}
	s.keys[rec.Key] = len(s.records)
	s.records = append(s.records, rec)
	return true
}

// Len returns the number of textures. A nil set is empty.
func (s *TextureSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// At returns texture i.
func (s *TextureSet) At(i int) *TextureRecord {
	return &s.records[i]
}

// Records returns the textures in insertion order.
func (s *TextureSet) Records() []TextureRecord {
	if s == nil {
		return nil
	}
	return s.records
}

// Get returns the texture stored under key.
func (s *TextureSet) Get(key string) (*TextureRecord, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.keys[key]
	if !ok {
		return nil, false
	}
	return &s.records[i], true
}

// FindByName returns the first texture whose name equals name, ignoring case.
func (s *TextureSet) FindByName(name string) (int, bool) {
	if s == nil || name == "" {
		return -1, false
	}
	for i := range s.records {
		if strings.EqualFold(s.records[i].Name, name) {
			return i, true
		}
	}
	return -1, false
}

// TextureDictionary is one decoded TXD file.
type TextureDictionary struct {
	ID        string
	FileIndex int
	Record    rw.Record
}

// nativeCandidates are the known locations of the texture native list.
var nativeCandidates = [][]string{
	{"textureDictionary", "textureNatives"},
	{"textureNatives"},
}

// Natives returns the texture native list of a dictionary record.
func Natives(rec rw.Record) []any {
	for _, path := range nativeCandidates {
		v, ok := rec.Lookup(path...)
		if !ok {
			continue
		}
		if list, _ := rw.AsList(v); len(list) > 0 {
			return list
		}
	}
	return nil
}

// MergeTextureDictionaries merges dictionaries in order into one set.
// The first texture seen for a key is kept; later ones are skipped.
// Natives whose pixels cannot be converted are skipped and do not claim
// their key.
func MergeTextureDictionaries(dicts []TextureDictionary, log *zap.Logger) *TextureSet {
	if log == nil {
		log = zap.NewNop()
	}

	set := &TextureSet{}
	for _, d := range dicts {
		for i, native := range Natives(d.Record) {
			rec, err := textureFromNative(native, d.FileIndex, i)
			if err != nil {
				log.Warn("skipping texture native",
					zap.String("file", d.ID),
					zap.Int("native", i),
					zap.Error(err))
				continue
			}
			if !set.Add(rec) {
				log.Debug("duplicate texture skipped",
					zap.String("file", d.ID),
					zap.String("key", rec.Key))
			}
		}
	}
	return set
}

func textureFromNative(native any, fileIndex, nativeIndex int) (TextureRecord, error) {
	var name string
	if v, ok := rw.Lookup(native, "name"); ok {
		name, _ = rw.AsString(v)
	}

	w, okW := lookupInt(native, "width")
	h, okH := lookupInt(native, "height")
	if !okW || !okH || w <= 0 || h <= 0 {
		return TextureRecord{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}

	mips, ok := rw.Lookup(native, "mipmaps")
	if !ok {
		return TextureRecord{}, ErrNoMipLevel
	}
	levels, _ := rw.AsList(mips)
	if len(levels) == 0 {
		return TextureRecord{}, ErrNoMipLevel
	}
	data, ok := rw.AsBytes(levels[0])
	if !ok {
		return TextureRecord{}, fmt.Errorf("%w: unreadable mip level", ErrPixelFormat)
	}

	pixels, err := toRGBA(data, w, h, nativeFormat(native))
	if err != nil {
		return TextureRecord{}, err
	}

	return TextureRecord{
		Name:        name,
		Width:       w,
		Height:      h,
		Pixels:      pixels,
		Key:         TextureKey(name, fileIndex, nativeIndex),
		FileIndex:   fileIndex,
		NativeIndex: nativeIndex,
	}, nil
}

func lookupInt(v any, key string) (int, bool) {
	f, ok := rw.Lookup(v, key)
	if !ok {
		return 0, false
	}
	return rw.AsInt(f)
}

// nativeFormat returns the upper-cased compression name of a native, if any.
func nativeFormat(native any) string {
	for _, key := range []string{"d3dFormat", "format", "compression"} {
		v, ok := rw.Lookup(native, key)
		if !ok {
			continue
		}
		if s, ok := rw.AsString(v); ok && s != "" {
			return strings.ToUpper(s)
		}
	}
	return ""
}

// toRGBA converts a base mip level to RGBA. Raw RGBA passes through;
// DXT block data is decoded when the format names it or the size matches.
func toRGBA(data []byte, w, h int, format string) ([]byte, error) {
	rgbaSize := w * h * 4
	blocks := ((w + 3) / 4) * ((h + 3) / 4)

	switch {
	case strings.Contains(format, "DXT1") || (format == "" && len(data) == blocks*8 && len(data) != rgbaSize):
		return decodeDXT(dxt.DecodeDXT1, data, w, h, blocks*8)
	case strings.Contains(format, "DXT3"):
		return decodeDXT(dxt.DecodeDXT3, data, w, h, blocks*16)
	case strings.Contains(format, "DXT5") || (format == "" && len(data) == blocks*16 && len(data) != rgbaSize):
		return decodeDXT(dxt.DecodeDXT5, data, w, h, blocks*16)
	case len(data) == rgbaSize:
		return data, nil
	}
	return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrPixelFormat, len(data), w, h)
}

func decodeDXT(decode func([]byte, uint, uint) ([]byte, error), data []byte, w, h, want int) ([]byte, error) {
	if len(data) < want {
		return nil, fmt.Errorf("%w: %d bytes of block data, need %d", ErrPixelFormat, len(data), want)
	}
	pixels, err := decode(data[:want], uint(w), uint(h))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPixelFormat, err)
	}
	if len(pixels) != w*h*4 {
		return nil, fmt.Errorf("%w: decoder returned %d bytes", ErrPixelFormat, len(pixels))
	}
	return pixels, nil
}
