// Package catalog loads practice projects from the data directory.
//
// A JSON file at the top of the directory is a standalone project whose ID is
// the file stem. A JSON file one level down belongs to a folder and its ID is
// the folder name followed by the stem, so data/政治/第一章.json is
// "政治第一章". Every file holds [{"Q": "...", "A": "..."}].
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/drillroom/backend/internal/domain/folder"
	"github.com/drillroom/backend/internal/domain/questionbank"
	"github.com/drillroom/backend/internal/worker"
)

var ErrNotFound = errors.New("project not found")

type Catalog struct {
	banks      map[string]*questionbank.Bank
	folders    []*folder.Folder
	standalone []*questionbank.Bank
}

type fileJob struct {
	id     string
	name   string
	folder string
	path   string
}

type loadResult struct {
	bank *questionbank.Bank
	err  error
}

// Load reads every project file under dir using a pool of workers.
// Unreadable or malformed files are logged and skipped.
func Load(dir string, workers int, logger *slog.Logger) (*Catalog, error) {
	jobs, err := scan(dir)
	if err != nil {
		return nil, err
	}

	pool := worker.NewPool[loadResult](workers, len(jobs))
	go func() {
		for _, j := range jobs {
			j := j
			pool.Submit(j.path, func() loadResult { return loadFile(j) })
		}
		pool.Close()
	}()

	var banks []*questionbank.Bank
	for res := range pool.Results() {
		if res.Output.err != nil {
			logger.Warn("skipping project file", "path", res.JobID, "error", res.Output.err)
			continue
		}
		banks = append(banks, res.Output.bank)
	}

	c := New(banks...)
	logger.Info("catalog loaded", "dir", dir, "projects", c.Len(), "folders", len(c.folders))
	return c, nil
}

// New builds a catalog from already-parsed banks. On duplicate IDs the first
// bank in sorted file order wins.
func New(banks ...*questionbank.Bank) *Catalog {
	sort.SliceStable(banks, func(i, j int) bool {
		if banks[i].Folder != banks[j].Folder {
			return banks[i].Folder < banks[j].Folder
		}
		return banks[i].File < banks[j].File
	})

	c := &Catalog{banks: make(map[string]*questionbank.Bank, len(banks))}
	byFolder := make(map[string][]*questionbank.Bank)

	for _, b := range banks {
		if _, dup := c.banks[b.ID]; dup {
			continue
		}
		c.banks[b.ID] = b
		if b.Folder == "" {
			c.standalone = append(c.standalone, b)
		} else {
			byFolder[b.Folder] = append(byFolder[b.Folder], b)
		}
	}

	for name, fb := range byFolder {
		c.folders = append(c.folders, folder.New(name, fb))
	}
	sort.Slice(c.folders, func(i, j int) bool { return c.folders[i].Name < c.folders[j].Name })
	sort.SliceStable(c.standalone, func(i, j int) bool {
		return c.standalone[i].DisplayName < c.standalone[j].DisplayName
	})
	return c
}

// Bank returns the project with the given ID.
func (c *Catalog) Bank(id string) (*questionbank.Bank, error) {
	b, ok := c.banks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

// Folders returns folders sorted by name, each with banks in chapter order.
func (c *Catalog) Folders() []*folder.Folder { return c.folders }

// Standalone returns top-level projects sorted by display name.
func (c *Catalog) Standalone() []*questionbank.Bank { return c.standalone }

func (c *Catalog) Len() int { return len(c.banks) }

func scan(dir string) ([]fileJob, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var jobs []fileJob
	for _, e := range entries {
		if e.IsDir() {
			sub, err := os.ReadDir(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, fmt.Errorf("read folder %s: %w", e.Name(), err)
			}
			for _, f := range sub {
				if f.IsDir() || !isProjectFile(f.Name()) {
					continue
				}
				stem := strings.TrimSuffix(f.Name(), ".json")
				jobs = append(jobs, fileJob{
					id:     e.Name() + stem,
					name:   stem,
					folder: e.Name(),
					path:   filepath.Join(dir, e.Name(), f.Name()),
				})
			}
			continue
		}
		if !isProjectFile(e.Name()) {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), ".json")
		jobs = append(jobs, fileJob{id: stem, name: stem, path: filepath.Join(dir, e.Name())})
	}
	return jobs, nil
}

func isProjectFile(name string) bool {
	return strings.HasSuffix(name, ".json")
}

func loadFile(j fileJob) loadResult {
	data, err := os.ReadFile(j.path)
	if err != nil {
		return loadResult{err: err}
	}

	var raw []questionbank.RawQuestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return loadResult{err: fmt.Errorf("decode %s: %w", j.path, err)}
	}

	bank, err := questionbank.New(j.id, j.name, j.folder, filepath.Base(j.path), raw)
	return loadResult{bank: bank, err: err}
}
