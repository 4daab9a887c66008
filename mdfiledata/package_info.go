// Package mdfiledata imports Mendel records from files.
//
// Files may contain either JSON or YAML; if the first non-whitespace character is '{', the file is parsed
// as JSON, otherwise it is parsed as YAML. The file data should consist of an object with up to three
// properties, which are imported in this order:
//
// - "species": Plant species, identified by name.
//
// - "cultivars": Plant cultivars, identified by name. A cultivar's "species" property is the name of a
// species, which may be defined in the same files or may already exist in the backend.
//
// - "plants": Plants, identified by a "key" that is only meaningful within the import files. A plant's
// "cultivar" and "species" properties are names; its "seed" and "pollen" properties are keys of other
// plants in the files. Parents are always created before their offspring.
//
// For example:
//
//	species:
//	  - name: Tomato
//	    taxon: Solanum lycopersicum
//	cultivars:
//	  - name: Brandywine
//	    cultivar: BW
//	    species: Tomato
//	    genetics: { ploidy: 2 }
//	plants:
//	  - key: bw-1
//	    cultivar: Brandywine
//	    labels: { bed: A1 }
//	  - key: bw-2
//	    cultivar: Brandywine
//	    seed: bw-1
//
// Species and cultivars whose names already exist in the backend are not created again, and an
// importer never resubmits an entry that it has already created, so it is safe to load the same
// files repeatedly. Use the mdfilewatch package to reload the files whenever they change.
//
// It is an error for the same name or key to appear more than once, either in a single file or across
// files, unless DuplicateEntriesIgnoreAllButFirst is used. If any file is missing, cannot be parsed, or
// has duplicate entries, nothing is imported from any of the files.
package mdfiledata
