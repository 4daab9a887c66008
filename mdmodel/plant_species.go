package mdmodel

import (
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// PlantSpeciesRequest contains the properties a client may submit to create a PlantSpecies.
type PlantSpeciesRequest struct {
	Name  string
	Taxon string
}

// PlantSpecies is a species record as returned by the backend.
type PlantSpecies struct {
	PlantSpeciesRequest
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the species identifier.
func (s PlantSpecies) GetID() string { return s.ID }

// GetName returns the species name.
func (s PlantSpecies) GetName() string { return s.Name }

// WriteToJSONWriter provides JSON serialization for use with the jsonstream API.
func (r PlantSpeciesRequest) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	r.writeProperties(&obj)
	obj.End()
}

func (r PlantSpeciesRequest) writeProperties(obj *jwriter.ObjectState) {
	obj.Name("name").String(r.Name)
	obj.Name("taxon").String(r.Taxon)
}

// ReadFromJSONReader provides JSON deserialization for use with the jsonstream API.
func (r *PlantSpeciesRequest) ReadFromJSONReader(reader *jreader.Reader) {
	var ret PlantSpeciesRequest
	for obj := reader.Object(); obj.Next(); {
		ret.readProperty(reader, string(obj.Name()))
	}
	if reader.Error() == nil {
		*r = ret
	}
}

func (r *PlantSpeciesRequest) readProperty(reader *jreader.Reader, name string) {
	switch name {
	case "name":
		r.Name = readString(reader)
	case "taxon":
		r.Taxon = readString(reader)
	}
}

// MarshalJSON provides JSON serialization for PlantSpeciesRequest when using json.Marshal.
func (r PlantSpeciesRequest) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(r)
}

// UnmarshalJSON provides JSON deserialization for PlantSpeciesRequest when using json.Unmarshal.
func (r *PlantSpeciesRequest) UnmarshalJSON(data []byte) error {
	return jreader.UnmarshalJSONWithReader(data, r)
}

// WriteToJSONWriter provides JSON serialization for use with the jsonstream API.
func (s PlantSpecies) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("id").String(s.ID)
	s.PlantSpeciesRequest.writeProperties(&obj)
	writeTimestamps(&obj, s.CreatedAt, s.UpdatedAt)
	obj.End()
}

// ReadFromJSONReader provides JSON deserialization for use with the jsonstream API.
func (s *PlantSpecies) ReadFromJSONReader(r *jreader.Reader) {
	var ret PlantSpecies
	for obj := r.Object(); obj.Next(); {
		switch name := string(obj.Name()); name {
		case "id":
			ret.ID = readString(r)
		case "created_at":
			ret.CreatedAt = readTimestamp(r)
		case "updated_at":
			ret.UpdatedAt = readTimestamp(r)
		default:
			ret.PlantSpeciesRequest.readProperty(r, name)
		}
	}
	if r.Error() == nil {
		*s = ret
	}
}

// MarshalJSON provides JSON serialization for PlantSpecies when using json.Marshal.
func (s PlantSpecies) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(s)
}

// UnmarshalJSON provides JSON deserialization for PlantSpecies when using json.Unmarshal.
func (s *PlantSpecies) UnmarshalJSON(data []byte) error {
	return jreader.UnmarshalJSONWithReader(data, s)
}
