// Package model loads the per-species model description files and the
// landmark correspondence tables, and validates them before the registration
// core sees any data. Malformed files fail here with a parse error; the core
// never receives partial tables.
package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oliviercoulon/MeCA-internship/internal/models"
)

// modelFile mirrors the on-disk YAML layout of a species model description.
type modelFile struct {
	Species      string                     `yaml:"species"`
	Side         string                     `yaml:"side"`
	Rectangle    models.RectangleDimensions `yaml:"rectangle"`
	LatitudeBand []float64                  `yaml:"latitudeBand"`
	Longitude    axisSection                `yaml:"longitude"`
	Latitude     axisSection                `yaml:"latitude"`
}

type axisSection struct {
	Axes      []models.Axis     `yaml:"axes"`
	Landmarks []models.Landmark `yaml:"landmarks"`
}

// LoadModel reads and validates one species model description.
func LoadModel(path string) (*models.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}

	var file modelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing model file %s: %w", path, err)
	}

	m := &models.Model{
		Species:    file.Species,
		Side:       models.Side(file.Side),
		Dimensions: file.Rectangle,
	}

	if m.Dimensions.LengthLongitude <= 0 || m.Dimensions.LengthLatitude <= 0 {
		return nil, fmt.Errorf("model %s: rectangle dimensions must be positive, got (%g, %g)",
			path, m.Dimensions.LengthLongitude, m.Dimensions.LengthLatitude)
	}

	switch len(file.LatitudeBand) {
	case 0:
		// Band omitted: the conventional non-polar band applies.
		m.LatitudeBand = [2]float64{30, 150}
	case 2:
		if file.LatitudeBand[0] >= file.LatitudeBand[1] {
			return nil, fmt.Errorf("model %s: latitude band [%g, %g] is not increasing",
				path, file.LatitudeBand[0], file.LatitudeBand[1])
		}
		m.LatitudeBand = [2]float64{file.LatitudeBand[0], file.LatitudeBand[1]}
	default:
		return nil, fmt.Errorf("model %s: latitude band must have two elements, got %d",
			path, len(file.LatitudeBand))
	}

	if m.LongitudeAxes, err = buildAxisTable(models.Longitude, file.Longitude); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	if m.LatitudeAxes, err = buildAxisTable(models.Latitude, file.Latitude); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}

	return m, nil
}

// buildAxisTable turns one axis section into the read-only lookup structure
// the core resolves anchors through.
func buildAxisTable(kind models.AxisKind, section axisSection) (*models.AxisTable, error) {
	if len(section.Axes) == 0 {
		return nil, fmt.Errorf("%s section declares no axes", kind)
	}

	table := &models.AxisTable{
		Kind:        kind,
		IDs:         make([]string, len(section.Axes)),
		Coordinates: make([]float64, len(section.Axes)),
		Positions:   make(map[string]int, len(section.Axes)),
		Landmarks:   section.Landmarks,
	}

	for i, axis := range section.Axes {
		if axis.ID == "" {
			return nil, fmt.Errorf("%s axis %d has an empty identifier", kind, i)
		}
		if _, dup := table.Positions[axis.ID]; dup {
			return nil, fmt.Errorf("%s axis identifier %q declared twice", kind, axis.ID)
		}
		table.IDs[i] = axis.ID
		table.Coordinates[i] = axis.Coordinate
		table.Positions[axis.ID] = i
	}

	for i, lm := range section.Landmarks {
		if len(lm.AxisIDs) == 0 {
			return nil, fmt.Errorf("%s landmark %d (%s) lists no axes", kind, i, lm.Name)
		}
		for _, id := range lm.AxisIDs {
			if _, ok := table.Positions[id]; !ok {
				return nil, fmt.Errorf("%s landmark %d (%s) references unknown axis %q",
					kind, i, lm.Name, id)
			}
		}
	}

	return table, nil
}

// SaveModel writes a model back out in the on-disk YAML layout, mainly for
// generating template files.
func SaveModel(m *models.Model, path string) error {
	file := modelFile{
		Species:      m.Species,
		Side:         string(m.Side),
		Rectangle:    m.Dimensions,
		LatitudeBand: []float64{m.LatitudeBand[0], m.LatitudeBand[1]},
		Longitude:    axisSectionFrom(m.LongitudeAxes),
		Latitude:     axisSectionFrom(m.LatitudeAxes),
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("marshaling model: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing model file: %w", err)
	}
	return nil
}

func axisSectionFrom(table *models.AxisTable) axisSection {
	section := axisSection{
		Axes:      make([]models.Axis, len(table.IDs)),
		Landmarks: table.Landmarks,
	}
	for i, id := range table.IDs {
		section.Axes[i] = models.Axis{ID: id, Coordinate: table.Coordinates[i]}
	}
	return section
}
