// Package dataset holds the declarative knowledge about the benchmark
// corpus (categories, datasets, models, and per-model input rules) and the
// walker that traverses per-model source trees, invoking the combiner once
// per recognized sample directory.
package dataset
