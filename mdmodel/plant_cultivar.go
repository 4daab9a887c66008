package mdmodel

import (
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// PlantCultivarRequest contains the properties a client may submit to create a PlantCultivar.
type PlantCultivarRequest struct {
	Name      string
	Cultivar  string
	SpeciesID string
	// Genetics is a free-form JSON object describing the cultivar's genetic traits.
	Genetics ldvalue.ValueMap
}

// PlantCultivar is a cultivar record as returned by the backend.
type PlantCultivar struct {
	PlantCultivarRequest
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the cultivar identifier.
func (c PlantCultivar) GetID() string { return c.ID }

// GetName returns the cultivar name.
func (c PlantCultivar) GetName() string { return c.Name }

// WriteToJSONWriter provides JSON serialization for use with the jsonstream API.
func (r PlantCultivarRequest) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	r.writeProperties(&obj)
	obj.End()
}

func (r PlantCultivarRequest) writeProperties(obj *jwriter.ObjectState) {
	obj.Name("name").String(r.Name)
	obj.Name("cultivar").String(r.Cultivar)
	obj.Name("species_id").String(r.SpeciesID)
	writeValueMap(obj.Name("genetics"), r.Genetics)
}

// ReadFromJSONReader provides JSON deserialization for use with the jsonstream API.
func (r *PlantCultivarRequest) ReadFromJSONReader(reader *jreader.Reader) {
	var ret PlantCultivarRequest
	for obj := reader.Object(); obj.Next(); {
		ret.readProperty(reader, string(obj.Name()))
	}
	if reader.Error() == nil {
		*r = ret
	}
}

func (r *PlantCultivarRequest) readProperty(reader *jreader.Reader, name string) {
	switch name {
	case "name":
		r.Name = readString(reader)
	case "cultivar":
		r.Cultivar = readString(reader)
	case "species_id":
		r.SpeciesID = readString(reader)
	case "genetics":
		r.Genetics.ReadFromJSONReader(reader)
	}
}

// MarshalJSON provides JSON serialization for PlantCultivarRequest when using json.Marshal.
func (r PlantCultivarRequest) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(r)
}

// UnmarshalJSON provides JSON deserialization for PlantCultivarRequest when using json.Unmarshal.
func (r *PlantCultivarRequest) UnmarshalJSON(data []byte) error {
	return jreader.UnmarshalJSONWithReader(data, r)
}

// WriteToJSONWriter provides JSON serialization for use with the jsonstream API.
func (c PlantCultivar) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("id").String(c.ID)
	c.PlantCultivarRequest.writeProperties(&obj)
	writeTimestamps(&obj, c.CreatedAt, c.UpdatedAt)
	obj.End()
}

// ReadFromJSONReader provides JSON deserialization for use with the jsonstream API.
func (c *PlantCultivar) ReadFromJSONReader(r *jreader.Reader) {
	var ret PlantCultivar
	for obj := r.Object(); obj.Next(); {
		switch name := string(obj.Name()); name {
		case "id":
			ret.ID = readString(r)
		case "created_at":
			ret.CreatedAt = readTimestamp(r)
		case "updated_at":
			ret.UpdatedAt = readTimestamp(r)
		default:
			ret.PlantCultivarRequest.readProperty(r, name)
		}
	}
	if r.Error() == nil {
		*c = ret
	}
}

// MarshalJSON provides JSON serialization for PlantCultivar when using json.Marshal.
func (c PlantCultivar) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(c)
}

// UnmarshalJSON provides JSON deserialization for PlantCultivar when using json.Unmarshal.
func (c *PlantCultivar) UnmarshalJSON(data []byte) error {
	return jreader.UnmarshalJSONWithReader(data, c)
}
