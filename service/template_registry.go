package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/amirulafiq/water-bill-extraction/dto"
)

// TemplateRegistry loads field-geometry templates keyed by region (the
// layout variant is folded into the region name). A missing template is
// created empty and returned: new layouts are discovered by running
// them, then populated by the authoring process.
type TemplateRegistry struct {
	dir string
}

func NewTemplateRegistry(dir string) *TemplateRegistry {
	return &TemplateRegistry{dir: dir}
}

func (r *TemplateRegistry) Load(region dto.Region) (dto.Template, error) {
	path := filepath.Join(r.dir, string(region)+".json")

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		// O_EXCL so concurrent first sight of a new variant writes the
		// empty file once; losing the race is benign.
		f, createErr := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if createErr == nil {
			f.WriteString("{}\n")
			f.Close()
		}
		return dto.Template{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}

	var tpl dto.Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("invalid template %s: %w", path, err)
	}
	if tpl == nil {
		tpl = dto.Template{}
	}
	return tpl, nil
}
