package print

// Simulator recolors scenes through the CMYK round-trip to approximate how
// fills will look on press. It is used only for preview thumbnails, never
// for final output.
type Simulator struct {
	profile PrintColorProfile
}

// NewSimulator creates a simulator for the given color profile
func NewSimulator(profile PrintColorProfile) *Simulator {
	return &Simulator{profile: profile}
}

// Profile returns the color profile driving the simulation
func (s *Simulator) Profile() PrintColorProfile {
	return s.profile
}

// SimulateScene returns a copy of the scene with every solid hex fill
// replaced by its press-rendered approximation. RGB profiles pass scenes
// through unchanged.
func (s *Simulator) SimulateScene(scene *Scene) *Scene {
	out := scene.Clone()
	if s.profile.Space != ColorSpaceCMYK {
		return out
	}
	out.BackgroundFill = s.simulateFill(out.BackgroundFill)
	for i := range out.Objects {
		if out.Objects[i].Fill != "" {
			out.Objects[i].Fill = s.simulateFill(out.Objects[i].Fill)
		}
	}
	return out
}

// simulateFill round-trips one hex fill; unparseable fills pass through so
// the preview never fails on exotic paint styles the pipeline ignores.
func (s *Simulator) simulateFill(fill string) string {
	if fill == "" {
		return fill
	}
	rgb, err := HexToRGB(fill)
	if err != nil {
		return fill
	}
	return rgb.RoundTrip().Hex()
}
