// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package freqmatrix builds the dense variant-support matrix behind the SNP
  heatmap.

  Each coverage filter (30x, 50x, ..., all reads) yields a sparse map from
  genomic position to the fraction of samples supporting a variant call there.
  Positions seen under one filter are often absent under another.  The matrix
  has one row per filter, in filter order, and one column per position seen
  anywhere, in ascending position order.  Absent (filter, position) pairs are
  zero.
*/
package freqmatrix
