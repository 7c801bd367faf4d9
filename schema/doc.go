// Package schema loads dataset definitions from YAML or TOML documents.
//
// A schema lists attributes, dimensions, variables and child groups:
//
//	name: station
//	attributes:
//	  - {name: title, value: surface met}
//	dimensions:
//	  - {name: time, unlimited: true}
//	  - {name: x, length: 3}
//	variables:
//	  - name: temp
//	    type: float
//	    dimensions: [time, x]
//	    attributes:
//	      - {name: units, value: degC}
//	      - {name: valid_range, type: float, value: [-50, 50]}
//
// Documents are validated on load. Attribute values and variable data are
// coerced to the declared type, so "1.5" and 1.5 are equivalent.
// Describe produces the schema of an existing tree.
package schema
