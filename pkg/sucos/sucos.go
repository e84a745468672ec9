// Package sucos implements the SuCOS shape and pharmacophore overlap
// score between pairs of 3D molecules: the average of a feature-map
// score and the complement of the shape protrude distance.
//
// SuCOS is the work of Susan Leung
// (https://doi.org/10.26434/chemrxiv.8100203.v1).
package sucos

// Params are the tunable constants of the score.
type Params struct {
	// FeatRadius is the cutoff distance for feature pairing.
	FeatRadius float64 `yaml:"feat_radius" json:"feat_radius"`
	// FeatWidth is the Gaussian width of the feature-map profile.
	FeatWidth float64 `yaml:"feat_width" json:"feat_width"`
	// GridSpacing is the shape voxel edge length in angstroms.
	GridSpacing float64 `yaml:"grid_spacing" json:"grid_spacing"`
	// GridMargin pads the reference bounding box.
	GridMargin float64 `yaml:"grid_margin" json:"grid_margin"`
	// VdwScale shrinks atom radii before voxelization.
	VdwScale float64 `yaml:"vdw_scale" json:"vdw_scale"`
}

// DefaultParams returns the stock SuCOS parameters.
func DefaultParams() Params {
	return Params{
		FeatRadius:  2.5,
		FeatWidth:   1.0,
		GridSpacing: 0.5,
		GridMargin:  2.0,
		VdwScale:    0.8,
	}
}

// Result holds the combined score and its two components.
type Result struct {
	Score      float64
	FeatureMap float64
	Protrude   float64
}

// Score computes SuCOS between a reference hit and a query molecule
// using precomputed feature lists for both.
func Score(ref, query *Prepared, p Params) Result {
	fm := FeatMapScore(ref.Features, query.Features, p)
	protrude := ProtrudeDist(ref.Mol, query.Mol, p)
	return Result{
		Score:      0.5*fm + 0.5*(1.0-protrude),
		FeatureMap: fm,
		Protrude:   protrude,
	}
}
