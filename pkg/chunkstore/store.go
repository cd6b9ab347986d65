// Package chunkstore is the content-addressed, type-partitioned pool of
// serialized sub-values described by §4.F: chunks live under
// <out>/chunks/<type-id>/<content-hash>, a rendered view of each
// accepted value is written under rendered_corpus/ or rendered_crashes/,
// and a small byte-budgeted LRU fronts disk reads because splice donors
// are read on every mutation attempt.
package chunkstore

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/autarkie-go/autarkie/internal/durable"
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

const (
	chunksDirName          = "chunks"
	renderedCorpusDirName  = "rendered_corpus"
	renderedCrashesDirName = "rendered_crashes"
)

// emptySentinel is written in place of a zero-length rendered file, so
// the rendered-file set never contains a byte-for-byte empty file —
// such files confuse downstream tooling that treats size 0 as "absent".
var emptySentinel = [4]byte{}

// RenderConverter turns a generated value into the exact bytes the
// target sees. It must be pure and injective into bytes; the core never
// needs to invert it.
type RenderConverter func(node.Node) []byte

// Store is the donor pool plus rendered-output directories for one
// fuzzing run.
type Store struct {
	root string

	mu    sync.Mutex
	index map[types.TypeId][]string
	cache *byteBudgetCache
}

// Open loads (or creates) the chunk store rooted at dir, scanning any
// existing chunks/ subtree to populate the in-memory index. cacheBudgetBytes
// <= 0 uses the default of 256 MiB.
func Open(dir string, cacheBudgetBytes int64) (*Store, error) {
	for _, sub := range []string{chunksDirName, renderedCorpusDirName, renderedCrashesDirName} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, &types.Error{Kind: types.ErrKindIO, Msg: "create chunk store directory", Err: err}
		}
	}

	cache, err := newByteBudgetCache(cacheBudgetBytes)
	if err != nil {
		return nil, &types.Error{Kind: types.ErrKindIO, Msg: "create chunk store cache", Err: err}
	}

	s := &Store{root: dir, index: make(map[types.TypeId][]string), cache: cache}
	if err := s.scan(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) scan() error {
	chunksDir := filepath.Join(s.root, chunksDirName)
	typeDirs, err := os.ReadDir(chunksDir)
	if err != nil {
		return &types.Error{Kind: types.ErrKindIO, Msg: "scan chunk store", Err: err}
	}
	for _, td := range typeDirs {
		if !td.IsDir() {
			continue
		}
		typeID, ok := parseTypeIDHex(td.Name())
		if !ok {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(chunksDir, td.Name()))
		if err != nil {
			return &types.Error{Kind: types.ErrKindIO, Msg: "scan chunk type directory", Err: err}
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			s.index[typeID] = append(s.index[typeID], filepath.Join(chunksDir, td.Name(), e.Name()))
		}
	}
	return nil
}

// InputsForType returns the file paths of every chunk stored for
// typeID, used by the splice-family mutators to pick a donor.
func (s *Store) InputsForType(typeID types.TypeId) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := s.index[typeID]
	out := make([]string, len(paths))
	copy(out, paths)
	return out
}

// ReadChunk returns the bytes of the chunk at path, consulting the
// byte-budgeted cache before touching disk.
func (s *Store) ReadChunk(path string) ([]byte, error) {
	s.mu.Lock()
	if cached, ok := s.cache.get(path); ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.Error{Kind: types.ErrKindIO, Msg: "read chunk", Err: err}
	}
	s.mu.Lock()
	s.cache.put(path, data)
	s.mu.Unlock()
	return data, nil
}

// Register walks value via SerializeSubnodes, writes any not-yet-seen
// chunk under chunks/<type-id>/<content-hash>, and writes the rendered
// view (via render) under rendered_corpus/ or rendered_crashes/. It is
// idempotent: re-registering a value whose sub-nodes were all already
// written touches no files and changes no index length.
func (s *Store) Register(value node.Node, v *visitor.Visitor, render RenderConverter, isSolution bool) error {
	v.ClearSerialized()
	value.SerializeSubnodes(v)
	subnodes := v.Serialized()

	for _, sn := range subnodes {
		if err := s.writeChunkIfAbsent(sn.TypeID, sn.Bytes); err != nil {
			return err
		}
	}

	rendered := render(value)
	if len(rendered) == 0 {
		rendered = emptySentinel[:]
	}
	renderedDir := renderedCorpusDirName
	if isSolution {
		renderedDir = renderedCrashesDirName
	}
	return s.writeRenderedIfAbsent(renderedDir, rendered)
}

func (s *Store) writeChunkIfAbsent(typeID types.TypeId, data []byte) error {
	hash := xxhash.Sum64(data)
	typeDir := filepath.Join(s.root, chunksDirName, formatTypeIDHex(typeID))
	if err := os.MkdirAll(typeDir, 0o755); err != nil {
		return &types.Error{Kind: types.ErrKindIO, Msg: "create chunk type directory", Err: err}
	}
	path := filepath.Join(typeDir, formatContentHashHex(hash))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(path); err == nil {
		// "File already exists" is a non-error: a race or a repeated
		// registration produced identical bytes under the content-hash
		// filename, so there is nothing to write.
		return nil
	}
	if err := writeFileDurable(path, data); err != nil {
		return err
	}
	s.index[typeID] = append(s.index[typeID], path)
	return nil
}

func (s *Store) writeRenderedIfAbsent(subdir string, data []byte) error {
	hash := xxhash.Sum64(data)
	path := filepath.Join(s.root, subdir, formatContentHashHex(hash))
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return writeFileDurable(path, data)
}

func writeFileDurable(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return &types.Error{Kind: types.ErrKindIO, Msg: "create chunk file", Err: err}
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return &types.Error{Kind: types.ErrKindIO, Msg: "write chunk file", Err: err}
	}
	if err := durable.Sync(f); err != nil {
		return &types.Error{Kind: types.ErrKindIO, Msg: "sync chunk file", Err: err}
	}
	return nil
}
