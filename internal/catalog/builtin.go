package catalog

// BuiltIn returns the launch vehicles shipped with the simulator.
func BuiltIn() []RocketModel {
	return []RocketModel{
		{
			ID:              "falcon-9",
			Name:            "Falcon 9",
			Type:            "Orbital Launch System",
			Height:          70,
			Diameter:        3.7,
			Mass:            549000,
			Payload:         22800,
			ThrustRating:    7600,
			SpecificImpulse: 282,
			FuelCapacity:    550000,
			Color:           Color{R: 0.15, G: 0.15, B: 0.25},
			Geometry:        "falcon9",
			Description:     "Two-stage orbital launch system with reusable first stage",
		},
		{
			ID:              "starship",
			Name:            "Starship",
			Type:            "Super Heavy-Lift",
			Height:          122,
			Diameter:        9,
			Mass:            1200000,
			Payload:         150000,
			ThrustRating:    33400,
			SpecificImpulse: 380,
			FuelCapacity:    1200000,
			Color:           Color{R: 0.8, G: 0.85, B: 0.95},
			Geometry:        "starship",
			Description:     "Fully reusable super heavy-lift launch system",
		},
		{
			ID:              "sls",
			Name:            "SLS Block 1",
			Type:            "Heavy-Lift",
			Height:          111,
			Diameter:        8.4,
			Mass:            2970000,
			Payload:         70000,
			ThrustRating:    34200,
			SpecificImpulse: 450,
			FuelCapacity:    980000,
			Color:           Color{R: 0.9, G: 0.45, B: 0.05},
			Geometry:        "sls",
			Description:     "NASA's Space Launch System for Artemis missions",
		},
		{
			ID:              "ariane-6",
			Name:            "Ariane 6",
			Type:            "Medium-Heavy Lift",
			Height:          80,
			Diameter:        5.4,
			Mass:            865000,
			Payload:         10350,
			ThrustRating:    12000,
			SpecificImpulse: 450,
			FuelCapacity:    230000,
			Color:           Color{R: 0.05, G: 0.4, B: 0.75},
			Geometry:        "ariane6",
			Description:     "European heavy-lift launch vehicle",
		},
		{
			ID:              "long-march-5",
			Name:            "Long March 5",
			Type:            "Heavy-Lift",
			Height:          57,
			Diameter:        5,
			Mass:            868000,
			Payload:         25000,
			ThrustRating:    12600,
			SpecificImpulse: 430,
			FuelCapacity:    700000,
			Color:           Color{R: 0.8, G: 0.2, B: 0.1},
			Geometry:        "longmarch5",
			Description:     "China's heavy-lift launch vehicle",
		},
		{
			ID:              "atlas-v",
			Name:            "Atlas V",
			Type:            "Heavy-Lift",
			Height:          58.3,
			Diameter:        3.81,
			Mass:            334000,
			Payload:         18850,
			ThrustRating:    8160,
			SpecificImpulse: 450,
			FuelCapacity:    190000,
			Color:           Color{R: 0.1, G: 0.3, B: 0.7},
			Geometry:        "atlasv",
			Description:     "United Launch Alliance heavy-lift vehicle",
		},
		{
			ID:              "delta-iv-heavy",
			Name:            "Delta IV Heavy",
			Type:            "Heavy-Lift",
			Height:          71.6,
			Diameter:        5,
			Mass:            733000,
			Payload:         28370,
			ThrustRating:    27200,
			SpecificImpulse: 452,
			FuelCapacity:    410000,
			Color:           Color{R: 0.15, G: 0.55, B: 0.15},
			Geometry:        "delta4",
			Description:     "ULA's triple-core heavy-lift launcher",
		},
		{
			ID:              "soyuz-2",
			Name:            "Soyuz 2",
			Type:            "Medium-Lift",
			Height:          46.3,
			Diameter:        2.66,
			Mass:            307000,
			Payload:         8400,
			ThrustRating:    8370,
			SpecificImpulse: 318,
			FuelCapacity:    87500,
			Color:           Color{R: 0.8, G: 0.2, B: 0.2},
			Geometry:        "soyuz",
			Description:     "Russian medium-lift vehicle for crew and cargo",
		},
		{
			ID:              "proton-m",
			Name:            "Proton M",
			Type:            "Heavy-Lift",
			Height:          58.3,
			Diameter:        7.4,
			Mass:            712000,
			Payload:         23000,
			ThrustRating:    10076,
			SpecificImpulse: 315,
			FuelCapacity:    311000,
			Color:           Color{R: 0.3, G: 0.2, B: 0.8},
			Geometry:        "protonm",
			Description:     "Russian heavy-lift launch vehicle",
		},
		{
			ID:              "h3",
			Name:            "H-3",
			Type:            "Heavy-Lift",
			Height:          63,
			Diameter:        4,
			Mass:            445000,
			Payload:         10000,
			ThrustRating:    15100,
			SpecificImpulse: 440,
			FuelCapacity:    240000,
			Color:           Color{R: 0.05, G: 0.15, B: 0.55},
			Geometry:        "h3",
			Description:     "Japan's next-generation heavy-lift launcher",
		},
		{
			ID:              "new-glenn",
			Name:            "New Glenn",
			Type:            "Heavy-Lift",
			Height:          86.6,
			Diameter:        7,
			Mass:            1410000,
			Payload:         45000,
			ThrustRating:    17010,
			SpecificImpulse: 465,
			FuelCapacity:    300000,
			Color:           Color{R: 0.25, G: 0.25, B: 0.35},
			Geometry:        "newglenn",
			Description:     "Blue Origin's heavy-lift launch vehicle",
		},
		{
			ID:              "vulcan",
			Name:            "Vulcan",
			Type:            "Heavy-Lift",
			Height:          63,
			Diameter:        3.8,
			Mass:            534000,
			Payload:         27200,
			ThrustRating:    14280,
			SpecificImpulse: 465,
			FuelCapacity:    195000,
			Color:           Color{R: 0.2, G: 0.4, B: 0.8},
			Geometry:        "vulcan",
			Description:     "ULA's next-generation heavy-lift vehicle",
		},
		{
			ID:              "minotaur-vi",
			Name:            "Minotaur VI",
			Type:            "Medium-Lift",
			Height:          86,
			Diameter:        1.04,
			Mass:            68000,
			Payload:         5000,
			ThrustRating:    1700,
			SpecificImpulse: 290,
			FuelCapacity:    25000,
			Color:           Color{R: 0.4, G: 0.1, B: 0.4},
			Geometry:        "minotaur",
			Description:     "Small-to-medium lift vehicle for small satellite launches",
		},
		{
			ID:              "electron",
			Name:            "Electron",
			Type:            "Small-Lift",
			Height:          17,
			Diameter:        1.2,
			Mass:            13000,
			Payload:         300,
			ThrustRating:    520,
			SpecificImpulse: 303,
			FuelCapacity:    11000,
			Color:           Color{R: 0.1, G: 0.6, B: 0.1},
			Geometry:        "electron",
			Description:     "Small-lift launch vehicle for cubesats and small satellites",
		},
		{
			ID:              "pegasus-xl",
			Name:            "Pegasus XL",
			Type:            "Air-Launch",
			Height:          17.6,
			Diameter:        1.27,
			Mass:            23130,
			Payload:         443,
			ThrustRating:    1223,
			SpecificImpulse: 285,
			FuelCapacity:    12000,
			Color:           Color{R: 0.7, G: 0.7, B: 0.05},
			Geometry:        "pegasus",
			Description:     "Air-launched orbital launch vehicle",
		},
		{
			ID:              "vega-c",
			Name:            "Vega C",
			Type:            "Small-to-Medium Lift",
			Height:          34.4,
			Diameter:        1.575,
			Mass:            137000,
			Payload:         2300,
			ThrustRating:    2890,
			SpecificImpulse: 312,
			FuelCapacity:    42000,
			Color:           Color{R: 0.05, G: 0.4, B: 0.8},
			Geometry:        "vegac",
			Description:     "European small-to-medium lift launch vehicle",
		},
		{
			ID:              "relativity-os2",
			Name:            "Relativity OS2",
			Type:            "Small-Lift",
			Height:          30,
			Diameter:        1.6,
			Mass:            24000,
			Payload:         1250,
			ThrustRating:    850,
			SpecificImpulse: 310,
			FuelCapacity:    15000,
			Color:           Color{R: 0.6, G: 0.2, B: 0.8},
			Geometry:        "relativity",
			Description:     "3D-printed small-lift launch vehicle",
		},
	}
}
