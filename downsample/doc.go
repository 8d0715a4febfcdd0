// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package downsample subsamples aligned reads toward a uniform target
  coverage.

  Reads are visited in a random (or best-alignment-first) order, and a read
  is kept whenever some base it covers is still below the target coverage
  among the reads kept so far.  High-coverage regions are thinned while
  low-coverage regions keep every read.  A coverage file can carry the kept
  coverage across several runs, e.g. when downsampling several read sets
  against a shared budget.

  Positions index a single linear reference no longer than Opts.GenomeMaxLen;
  the tool targets small (viral) genomes.
*/
package downsample
