package sim

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Persisted grid layout (big-endian):
//
//	magic   [4]byte "SPIL"
//	version uint8   1
//	size    uint32
//	heights size*size int64, row-major by X
const (
	seedMagic      = "SPIL"
	seedVersion    = 1
	seedHeaderSize = len(seedMagic) + 1 + 4
)

// MarshalBinary encodes the grid in the persisted seed format.
func (g *Grid) MarshalBinary() ([]byte, error) {
	buf := make([]byte, seedHeaderSize+8*len(g.heights))
	copy(buf, seedMagic)
	buf[len(seedMagic)] = seedVersion
	binary.BigEndian.PutUint32(buf[len(seedMagic)+1:], uint32(g.size))
	off := seedHeaderSize
	for _, h := range g.heights {
		binary.BigEndian.PutUint64(buf[off:], uint64(int64(h)))
		off += 8
	}
	return buf, nil
}

// UnmarshalBinary replaces g with the decoded grid. On error g is unchanged.
func (g *Grid) UnmarshalBinary(data []byte) error {
	if len(data) < seedHeaderSize {
		return fmt.Errorf("%w: %d bytes is shorter than the %d byte header", ErrDeserialization, len(data), seedHeaderSize)
	}
	if !bytes.Equal(data[:len(seedMagic)], []byte(seedMagic)) {
		return fmt.Errorf("%w: bad magic %q", ErrDeserialization, data[:len(seedMagic)])
	}
	if v := data[len(seedMagic)]; v != seedVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrDeserialization, v)
	}
	size := binary.BigEndian.Uint32(data[len(seedMagic)+1:])
	if size < 1 || uint64(size)*uint64(size) > math.MaxInt32 {
		return fmt.Errorf("%w: invalid lattice size %d", ErrDeserialization, size)
	}
	cells := int(size) * int(size)
	if want := seedHeaderSize + 8*cells; len(data) != want {
		return fmt.Errorf("%w: %dx%d grid needs %d bytes, got %d", ErrDeserialization, size, size, want, len(data))
	}
	heights := make([]int, cells)
	off := seedHeaderSize
	for i := range heights {
		v := int64(binary.BigEndian.Uint64(data[off:]))
		if int64(int(v)) != v {
			return fmt.Errorf("%w: height %d at cell %d overflows int", ErrDeserialization, v, i)
		}
		heights[i] = int(v)
		off += 8
	}
	g.size = int(size)
	g.heights = heights
	return nil
}

// LoadSeed reads a persisted grid. When size is positive the decoded grid
// must match it.
func LoadSeed(r io.Reader, size int) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading seed: %w", ErrDeserialization, err)
	}
	g := &Grid{}
	if err := g.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	if size > 0 && g.size != size {
		return nil, fmt.Errorf("%w: seed is %dx%d, configured lattice is %dx%d", ErrDeserialization, g.size, g.size, size, size)
	}
	return g, nil
}

// LoadSeedFile opens path and decodes it with LoadSeed.
func LoadSeedFile(path string, size int) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening seed file: %w", ErrDeserialization, err)
	}
	defer f.Close()
	return LoadSeed(f, size)
}

// SaveSeedFile writes g to path in the persisted seed format.
func SaveSeedFile(path string, g *Grid) error {
	data, err := g.MarshalBinary()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing seed file: %w", err)
	}
	return nil
}
