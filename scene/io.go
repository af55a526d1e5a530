package scene

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"hash/crc32"
	"os"

	"github.com/golang/snappy"

	"github.com/voxray/voxray/tracer"
)

// Checkpoint framing: magic, format version, crc32 of the compressed
// payload, then a snappy-compressed gob snapshot of bounds and grids.
var checkpointMagic = [4]byte{'V', 'X', 'R', 'C'}

const (
	checkpointVersion    = 1
	checkpointHeaderSize = 9
)

type snapshot struct {
	Res     [3]int
	Min     [3]float64
	Max     [3]float64
	Density []float64
	Color   []float64
}

// Save writes the scene to path in the versioned checkpoint format.
func (s *Scene) Save(path string) error {
	snap := snapshot{
		Res:     s.Res(),
		Min:     [3]float64{s.Bounds.Min.X, s.Bounds.Min.Y, s.Bounds.Min.Z},
		Max:     [3]float64{s.Bounds.Max.X, s.Bounds.Max.Y, s.Bounds.Max.Z},
		Density: s.Density.Data.Elements,
		Color:   s.Color.Data.Elements,
	}

	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(snap); err != nil {
		return fmt.Errorf("scene: encoding checkpoint: %w", err)
	}
	compressed := snappy.Encode(nil, payload.Bytes())

	buf := make([]byte, 0, checkpointHeaderSize+len(compressed))
	buf = append(buf, checkpointMagic[:]...)
	buf = append(buf, checkpointVersion)
	var crc [4]byte
	binary.LittleEndian.PutUint32(crc[:], crc32.ChecksumIEEE(compressed))
	buf = append(buf, crc[:]...)
	buf = append(buf, compressed...)

	return os.WriteFile(path, buf, 0644)
}

// Load reads a checkpoint written by Save, verifying the framing and
// checksum before trusting the payload.
func Load(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: reading checkpoint: %w", err)
	}
	if len(raw) < checkpointHeaderSize || !bytes.Equal(raw[:4], checkpointMagic[:]) {
		return nil, fmt.Errorf("%w: %s is not a checkpoint", ErrBadCheckpoint, path)
	}
	if raw[4] != checkpointVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadCheckpoint, raw[4])
	}
	compressed := raw[checkpointHeaderSize:]
	if crc32.ChecksumIEEE(compressed) != binary.LittleEndian.Uint32(raw[5:checkpointHeaderSize]) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrBadCheckpoint)
	}

	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCheckpoint, err)
	}
	var snap snapshot
	if err = gob.NewDecoder(bytes.NewReader(payload)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCheckpoint, err)
	}

	s, err := New(snap.Res, tracer.Box{Min: vec3(snap.Min), Max: vec3(snap.Max)})
	if err != nil {
		return nil, err
	}
	if len(snap.Density) != len(s.Density.Data.Elements) || len(snap.Color) != len(s.Color.Data.Elements) {
		return nil, fmt.Errorf("%w: value counts do not match resolution %v", ErrBadCheckpoint, snap.Res)
	}
	copy(s.Density.Data.Elements, snap.Density)
	copy(s.Color.Data.Elements, snap.Color)
	return s, nil
}
