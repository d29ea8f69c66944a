// Package registry provides a generic thread-safe ordered multimap.
//
// Each key owns a sequence of values in insertion order. The registry only
// grows: values are appended, never replaced, deduplicated, or removed.
// typebus uses it to file handler boxes under event type identities.
//
// # Basic Usage
//
//	r := registry.New[string, int]()
//	r.Append("odd", 1)
//	r.Append("odd", 3)
//	r.Append("even", 2)
//
//	r.Get("odd")     // [1 3]
//	r.Get("missing") // nil
//	r.Count("odd")   // 2
//	r.Total()        // 3
//	r.Keys()         // [odd even], first-append order
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. Get and Range hand out
// copies, so callers may iterate them while other goroutines keep appending:
//
//	for _, v := range r.Get("odd") {
//	    r.Append("odd", v+2) // not visible to this loop
//	}
package registry
