// Package compiler turns CUE model and query definitions into the
// in-memory forms the translator consumes.
//
// A spec directory holds any number of .cue files contributing to two
// top-level structs:
//
//	model: shop: {
//		entity: Customer: {
//			table: "customers"
//			key:   "id"
//			property: {
//				id:     {type: "int"}
//				active: {type: "bool", column: "is_active", converter: "bool_to_yn"}
//			}
//		}
//	}
//
//	query: active_customers: {
//		from:  "Customer"
//		where: {truth: "active"}
//	}
//
// Uses the CUE SDK's Go API directly, never the cue CLI.
package compiler
