package impact

// Family captures the constants that differ between the three sensor
// families. Everything else about the aggregation loop is shared.
type Family struct {
	// Label keys the persisted summary record: conv, conv_uv or sate.
	Label string
	// AssimFlag is the analysis-use sentinel marking an assimilated
	// observation: 1 for conventional, 0 for radiance. The two constants
	// are historical GSI convention and must not be unified.
	AssimFlag int
	// Components is the number of Jo-diff values per record: 2 for wind
	// vectors (u and v), 1 otherwise.
	Components int
	// Radiance selects the radiance diagnostic layout (QC_Flag,
	// Inverse_Observation_Error, Channel_Index) over the conventional one.
	Radiance bool
	// ProgressEvery logs a progress line every N rows when positive.
	// Radiance tables run to hundreds of thousands of rows.
	ProgressEvery int
	// Sensors lists the diagnostic types processed for this family, in
	// summary-record order.
	Sensors []string
}

func ConventionalFamily(sensors []string) Family {
	return Family{Label: "conv", AssimFlag: 1, Components: 1, Sensors: sensors}
}

func WindFamily(sensors []string) Family {
	return Family{Label: "conv_uv", AssimFlag: 1, Components: 2, Sensors: sensors}
}

func RadianceFamily(sensors []string) Family {
	return Family{
		Label:         "sate",
		AssimFlag:     0,
		Components:    1,
		Radiance:      true,
		ProgressEvery: 200000,
		Sensors:       sensors,
	}
}

// componentNames labels the per-component warning output.
func (f Family) componentNames() []string {
	if f.Components == 2 {
		return []string{"U", "V"}
	}
	return []string{""}
}
