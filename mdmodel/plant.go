package mdmodel

import (
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// PlantRequest contains the properties a client may submit to create a Plant.
type PlantRequest struct {
	CultivarID string
	SpeciesID  string
	// SeedID and PollenID reference the parent plants, if any.
	SeedID   string
	PollenID string
	Genetics ldvalue.ValueMap
	Labels   ldvalue.ValueMap
}

// Plant is a plant record as returned by the backend. Generation is computed by the backend from
// the plant's parents.
type Plant struct {
	PlantRequest
	ID         string
	Generation uint32
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// GetID returns the plant identifier.
func (p Plant) GetID() string { return p.ID }

// WriteToJSONWriter provides JSON serialization for use with the jsonstream API.
func (r PlantRequest) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	r.writeProperties(&obj)
	obj.End()
}

func (r PlantRequest) writeProperties(obj *jwriter.ObjectState) {
	obj.Name("cultivar_id").String(r.CultivarID)
	obj.Name("species_id").String(r.SpeciesID)
	obj.Name("seed_id").String(r.SeedID)
	obj.Name("pollen_id").String(r.PollenID)
	writeValueMap(obj.Name("genetics"), r.Genetics)
	writeValueMap(obj.Name("labels"), r.Labels)
}

// ReadFromJSONReader provides JSON deserialization for use with the jsonstream API.
func (r *PlantRequest) ReadFromJSONReader(reader *jreader.Reader) {
	var ret PlantRequest
	for obj := reader.Object(); obj.Next(); {
		ret.readProperty(reader, string(obj.Name()))
	}
	if reader.Error() == nil {
		*r = ret
	}
}

func (r *PlantRequest) readProperty(reader *jreader.Reader, name string) {
	switch name {
	case "cultivar_id":
		r.CultivarID = readString(reader)
	case "species_id":
		r.SpeciesID = readString(reader)
	case "seed_id":
		r.SeedID = readString(reader)
	case "pollen_id":
		r.PollenID = readString(reader)
	case "genetics":
		r.Genetics.ReadFromJSONReader(reader)
	case "labels":
		r.Labels.ReadFromJSONReader(reader)
	}
}

// MarshalJSON provides JSON serialization for PlantRequest when using json.Marshal.
func (r PlantRequest) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(r)
}

// UnmarshalJSON provides JSON deserialization for PlantRequest when using json.Unmarshal.
func (r *PlantRequest) UnmarshalJSON(data []byte) error {
	return jreader.UnmarshalJSONWithReader(data, r)
}

// WriteToJSONWriter provides JSON serialization for use with the jsonstream API.
func (p Plant) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("id").String(p.ID)
	p.PlantRequest.writeProperties(&obj)
	obj.Name("generation").Int(int(p.Generation))
	writeTimestamps(&obj, p.CreatedAt, p.UpdatedAt)
	obj.End()
}

// ReadFromJSONReader provides JSON deserialization for use with the jsonstream API.
func (p *Plant) ReadFromJSONReader(r *jreader.Reader) {
	var ret Plant
	for obj := r.Object(); obj.Next(); {
		switch name := string(obj.Name()); name {
		case "id":
			ret.ID = readString(r)
		case "generation":
			if n, nonNull := r.IntOrNull(); nonNull && n > 0 {
				ret.Generation = uint32(n)
			}
		case "created_at":
			ret.CreatedAt = readTimestamp(r)
		case "updated_at":
			ret.UpdatedAt = readTimestamp(r)
		default:
			ret.PlantRequest.readProperty(r, name)
		}
	}
	if r.Error() == nil {
		*p = ret
	}
}

// MarshalJSON provides JSON serialization for Plant when using json.Marshal.
func (p Plant) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(p)
}

// UnmarshalJSON provides JSON deserialization for Plant when using json.Unmarshal.
func (p *Plant) UnmarshalJSON(data []byte) error {
	return jreader.UnmarshalJSONWithReader(data, p)
}
