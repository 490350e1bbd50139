// Package vals contains basic facilities for manipulating values used in
// tarn programs.
//
// Values are held in an any, and are one of int64, string, bool, Pair, nil
// (the result of a Let with nothing after it), or a type implementing some of
// the Kinder, Stringer, Equaler and Hasher interfaces, like closures.
package vals
