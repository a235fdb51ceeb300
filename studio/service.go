package studio

import (
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/davsar89/GDML-Studio/expr"
	"github.com/davsar89/GDML-Studio/gdml"
	"github.com/davsar89/GDML-Studio/scene"
	"github.com/davsar89/GDML-Studio/tessellate"
)

// snapshot is the single cached slot: everything one upload produces.
type snapshot struct {
	filename string
	doc      *gdml.Document
	values   *expr.ValueTable
	meshes   map[string]tessellate.TriangleMesh
	graph    *scene.SceneNode
	warnings []string
}

// Service is the pipeline entry point: a single-slot cache of the most
// recently uploaded GDML document, guarded by a reader/writer lock so
// concurrent queries never observe a partially-replaced slot.
type Service struct {
	cfg Config

	mu     sync.RWMutex
	loaded *snapshot
}

// NewService constructs a Service from cfg. A zero MeshSegments falls back
// to DefaultMeshSegments; the environment is not read here (see
// LoadConfig).
func NewService(cfg Config) *Service {
	if cfg.MeshSegments == 0 {
		cfg.MeshSegments = DefaultMeshSegments
	}
	return &Service{cfg: cfg}
}

func (s *Service) segmentsOrDefault(segments *int) uint32 {
	if segments != nil && *segments > 0 {
		return uint32(*segments)
	}
	return s.cfg.MeshSegments
}

// Upload parses, evaluates, and tessellates a single GDML document, then
// atomically replaces the cached slot. filename must end in ".gdml".
func (s *Service) Upload(filename string, content []byte, segments *int) (Summary, error) {
	if !strings.HasSuffix(filename, ".gdml") {
		return Summary{}, badInput("filename must end with .gdml")
	}

	doc, err := gdml.Parse(content, filename)
	if err != nil {
		return Summary{}, wrapPipelineError("parse", err)
	}

	return s.evaluateAndInstall(filename, doc, nil, segments)
}

// UploadMulti performs the multi-file merge (folding each sibling in files
// that a physvol's file_ref names into the main document; siblings no
// physvol references are parsed but not merged) before evaluation, then
// proceeds exactly as Upload.
func (s *Service) UploadMulti(files map[string][]byte, mainFilename string, segments *int) (Summary, error) {
	mainContent, ok := files[mainFilename]
	if !ok {
		return Summary{}, badInput("main_filename not present in files")
	}

	main, err := gdml.Parse(mainContent, mainFilename)
	if err != nil {
		return Summary{}, wrapPipelineError("parse", err)
	}

	siblings := make(map[string]*gdml.Document, len(files)-1)
	var parseErr error
	for name, content := range files {
		if name == mainFilename {
			continue
		}
		doc, err := gdml.Parse(content, name)
		if err != nil {
			multierr.AppendInto(&parseErr, wrapPipelineError("parse "+name, err))
			continue
		}
		siblings[name] = doc
	}
	if parseErr != nil {
		return Summary{}, parseErr
	}

	mergeWarnings := scene.Merge(main, siblings)
	return s.evaluateAndInstall(mainFilename, main, mergeWarnings, segments)
}

func (s *Service) evaluateAndInstall(filename string, doc *gdml.Document, priorWarnings []string, segments *int) (Summary, error) {
	values, err := expr.Evaluate(doc.Defines)
	if err != nil {
		return Summary{}, wrapPipelineError("evaluate", err)
	}

	meshes, tessWarnings := tessellate.TessellateAll(doc.Solids, values, s.segmentsOrDefault(segments))
	graph := scene.BuildGraph(doc, values)

	warnings := append(append([]string{}, priorWarnings...), tessWarnings...)

	snap := &snapshot{
		filename: filename,
		doc:      doc,
		values:   values,
		meshes:   meshes,
		graph:    graph,
		warnings: warnings,
	}

	s.mu.Lock()
	s.loaded = snap
	s.mu.Unlock()

	return summaryOf(snap), nil
}

func summaryOf(snap *snapshot) Summary {
	d := snap.doc.Defines
	return Summary{
		Filename:       snap.filename,
		DefinesCount:   len(d.Constants) + len(d.Quantities) + len(d.Variables) + len(d.Expressions),
		PositionsCount: len(d.Positions),
		RotationsCount: len(d.Rotations),
		MaterialsCount: len(snap.doc.Materials.Materials),
		ElementsCount:  len(snap.doc.Materials.Elements),
		SolidsCount:    len(snap.doc.Solids.Solids),
		VolumesCount:   len(snap.doc.Structure.Volumes),
		MeshesCount:    len(snap.meshes),
		WorldRef:       snap.doc.Setup.WorldRef,
		Warnings:       snap.warnings,
	}
}

func (s *Service) current() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loaded == nil {
		return nil, &NotLoadedError{}
	}
	return s.loaded, nil
}

// Summary returns the counts and world ref of the current snapshot.
func (s *Service) Summary() (Summary, error) {
	snap, err := s.current()
	if err != nil {
		return Summary{}, err
	}
	return summaryOf(snap), nil
}

// Defines returns every resolved define entry in section-concatenated
// order: constants, quantities, variables, expressions.
func (s *Service) Defines() ([]DefineValue, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	d := snap.doc.Defines
	out := make([]DefineValue, 0, len(d.Constants)+len(d.Quantities)+len(d.Variables)+len(d.Expressions))
	for _, c := range d.Constants {
		out = append(out, DefineValue{Name: c.Name, Expression: c.Value, Evaluated: snap.values.Scalars[c.Name], Kind: KindConstant})
	}
	for _, q := range d.Quantities {
		out = append(out, DefineValue{Name: q.Name, Expression: q.Value, Evaluated: snap.values.Scalars[q.Name], Unit: q.Unit, Kind: KindQuantity})
	}
	for _, v := range d.Variables {
		out = append(out, DefineValue{Name: v.Name, Expression: v.Value, Evaluated: snap.values.Scalars[v.Name], Kind: KindVariable})
	}
	for _, e := range d.Expressions {
		out = append(out, DefineValue{Name: e.Name, Expression: e.Value, Evaluated: snap.values.Scalars[e.Name], Kind: KindExpression})
	}
	return out, nil
}

// Materials returns the stored elements and materials sections verbatim.
func (s *Service) Materials() (gdml.MaterialSection, error) {
	snap, err := s.current()
	if err != nil {
		return gdml.MaterialSection{}, err
	}
	return snap.doc.Materials, nil
}

// Solids returns the stored solid definitions verbatim, pre-tessellation.
func (s *Service) Solids() ([]gdml.Solid, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.doc.Solids.Solids, nil
}

// Structure returns the stored volume list and world ref verbatim.
func (s *Service) Structure() (StructureView, error) {
	snap, err := s.current()
	if err != nil {
		return StructureView{}, err
	}
	return StructureView{Volumes: snap.doc.Structure.Volumes, WorldRef: snap.doc.Setup.WorldRef}, nil
}

// Meshes returns every tessellated solid plus the placed scene graph.
func (s *Service) Meshes() (MeshesView, error) {
	snap, err := s.current()
	if err != nil {
		return MeshesView{}, err
	}
	meshes := make(map[string]MeshData, len(snap.meshes))
	for name, m := range snap.meshes {
		meshes[name] = MeshData{Positions: m.Positions, Normals: m.Normals, Indices: m.Indices}
	}
	return MeshesView{Meshes: meshes, SceneGraph: snap.graph}, nil
}
