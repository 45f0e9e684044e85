package memserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-marmot/marmot"
	"github.com/go-marmot/marmot/errors"
	"github.com/go-marmot/marmot/geo"
	"github.com/paulmach/orb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type entry struct {
	info    marmot.DataSetInfo
	records []*marmot.Record
}

// catalog holds every dataset of a Server, keyed by id. Folders are not
// stored; they are derived from the '/'-separated ids.
type catalog struct {
	lock    sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

func newCatalog() *catalog {
	return &catalog{entries: make(map[string]*entry), now: time.Now}
}

// normalizeID strips surrounding whitespace and slashes from an id
func normalizeID(id string) string {
	return strings.Trim(strings.TrimSpace(id), "/")
}

type createOptions struct {
	geometryColumn   *marmot.GeometryColumnInfo
	force            bool
	blockSize        int64
	compressionCodec string
	dsType           marmot.DataSetType
}

func (c *catalog) create(id string, schema *marmot.RecordSchema, opts createOptions) (*marmot.DataSetInfo, error) {
	id = normalizeID(id)
	if len(id) == 0 {
		return nil, status.Error(codes.InvalidArgument, "empty dataset id")
	}
	if gc := opts.geometryColumn; gc != nil {
		col, ok := schema.GetColumn(gc.Name)
		if !ok {
			return nil, errors.ColumnNotFoundError{Name: gc.Name}
		}
		if !col.Type.IsGeometry() {
			return nil, errors.TypeMismatchError{Column: col.Name, Expected: "geometry", Actual: col.Type.Name()}
		}
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	if _, exists := c.entries[id]; exists && !opts.force {
		return nil, errors.DataSetExistsError{ID: id}
	}
	e := &entry{info: marmot.DataSetInfo{
		ID:               id,
		Type:             opts.dsType,
		Schema:           schema,
		GeometryColumn:   opts.geometryColumn,
		Bounds:           geo.EmptyBound,
		HdfsPath:         "/marmot/datasets/" + id,
		BlockSize:        opts.blockSize,
		CompressionCodec: opts.compressionCodec,
		UpdatedMillis:    c.now().UnixMilli(),
	}}
	c.entries[id] = e
	info := e.info
	return &info, nil
}

// lookup returns a copy of a dataset's info and a snapshot of its records
func (c *catalog) lookup(id string) (*marmot.DataSetInfo, []*marmot.Record, error) {
	id = normalizeID(id)
	c.lock.RLock()
	defer c.lock.RUnlock()
	e, ok := c.entries[id]
	if !ok {
		return nil, nil, errors.DataSetNotFoundError{ID: id}
	}
	info := e.info
	return &info, e.records[:len(e.records):len(e.records)], nil
}

func (c *catalog) info(id string) (*marmot.DataSetInfo, error) {
	info, _, err := c.lookup(id)
	return info, err
}

// list returns the infos of the datasets accepted by keep, sorted by id
func (c *catalog) list(keep func(id string) bool) []*marmot.DataSetInfo {
	c.lock.RLock()
	defer c.lock.RUnlock()
	infos := make([]*marmot.DataSetInfo, 0, len(c.entries))
	for id, e := range c.entries {
		if keep == nil || keep(id) {
			info := e.info
			infos = append(infos, &info)
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

func (c *catalog) listInFolder(folder string, recursive bool) []*marmot.DataSetInfo {
	folder = normalizeID(folder)
	return c.list(func(id string) bool {
		if recursive {
			return inFolder(id, folder)
		}
		return marmot.FolderOf(id) == folder
	})
}

func inFolder(id string, folder string) bool {
	return len(folder) == 0 || strings.HasPrefix(id, folder+"/")
}

// folders lists every folder holding a dataset, including their ancestors
func (c *catalog) folders() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	seen := make(map[string]bool)
	for id := range c.entries {
		for folder := marmot.FolderOf(id); len(folder) > 0; folder = marmot.FolderOf(folder) {
			seen[folder] = true
		}
	}
	folders := make([]string, 0, len(seen))
	for folder := range seen {
		folders = append(folders, folder)
	}
	sort.Strings(folders)
	return folders
}

func (c *catalog) move(from string, to string) error {
	from, to = normalizeID(from), normalizeID(to)
	c.lock.Lock()
	defer c.lock.Unlock()
	e, ok := c.entries[from]
	if !ok {
		return errors.DataSetNotFoundError{ID: from}
	}
	if from == to {
		return nil
	}
	if _, exists := c.entries[to]; exists {
		return errors.DataSetExistsError{ID: to}
	}
	delete(c.entries, from)
	e.info.ID = to
	e.info.HdfsPath = "/marmot/datasets/" + to
	e.info.UpdatedMillis = c.now().UnixMilli()
	c.entries[to] = e
	return nil
}

// remove deletes a dataset, returning false if it did not exist
func (c *catalog) remove(id string) bool {
	id = normalizeID(id)
	c.lock.Lock()
	defer c.lock.Unlock()
	_, ok := c.entries[id]
	delete(c.entries, id)
	return ok
}

// removeFolder deletes every dataset under folder, returning how many
func (c *catalog) removeFolder(folder string) int {
	folder = normalizeID(folder)
	c.lock.Lock()
	defer c.lock.Unlock()
	count := 0
	for id := range c.entries {
		if inFolder(id, folder) {
			delete(c.entries, id)
			count++
		}
	}
	return count
}

// appendRecords adds records to a dataset, whose schema they must have
func (c *catalog) appendRecords(id string, records []*marmot.Record) (*marmot.DataSetInfo, error) {
	id = normalizeID(id)
	c.lock.Lock()
	defer c.lock.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return nil, errors.DataSetNotFoundError{ID: id}
	}
	geomIdx := -1
	if gc := e.info.GeometryColumn; gc != nil {
		if col, ok := e.info.Schema.GetColumn(gc.Name); ok {
			geomIdx = col.Ordinal
		}
	}
	bounds := e.info.Bounds
	for _, rec := range records {
		if rec.Schema() != e.info.Schema {
			if err := e.info.Schema.Equals(rec.Schema()); err != nil {
				return nil, err
			}
		}
		if geomIdx >= 0 {
			if g, ok := rec.Get(geomIdx).(orb.Geometry); ok && g != nil {
				bounds = geo.Union(bounds, g.Bound())
			}
		}
	}
	// records handed out by lookup are never modified, only replaced
	e.records = append(e.records[:len(e.records):len(e.records)], records...)
	e.info.RecordCount = int64(len(e.records))
	e.info.Bounds = bounds
	e.info.UpdatedMillis = c.now().UnixMilli()
	info := e.info
	return &info, nil
}

func (c *catalog) setSpatialIndex(id string, indexed bool) (*marmot.DataSetInfo, error) {
	id = normalizeID(id)
	c.lock.Lock()
	defer c.lock.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return nil, errors.DataSetNotFoundError{ID: id}
	}
	if indexed && e.info.GeometryColumn == nil {
		return nil, errors.ColumnNotFoundError{Name: "<geometry>"}
	}
	e.info.HasSpatialIndex = indexed
	e.info.UpdatedMillis = c.now().UnixMilli()
	info := e.info
	return &info, nil
}
