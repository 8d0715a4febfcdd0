// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package numfile reads the small line-oriented numeric files produced by the
// downsampling tools: read lengths and strand-bias ratios (one value per
// line), old/new coverage pairs (two columns), and position/frequency count
// files.  Fields are separated by any run of whitespace.  Paths may name any
// grailbio/base/file location, and compressed files are recognized by their
// extension.
package numfile
