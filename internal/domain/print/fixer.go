package print

// ApplyAutoFixes resolves the auto-fixable warnings of a report against a
// copy of the pages. Fix policy:
//
//   - BLEED_MISSING: the page boxes are recomputed from the product
//     dimensions at the required bleed. Artwork is rendered edge-to-edge
//     into the bleed box, so widening the box re-exposes artwork.
//   - COLOR_GAMUT: the offending fill is replaced with its press
//     approximation, the nearest color that survives print conversion
//     unchanged.
//
// Non-fixable warnings pass through untouched. The input pages are not
// mutated; fixed copies and the updated warning list are returned.
func ApplyAutoFixes(pages []PrintPage, product PrintProduct, warnings []QualityWarning) ([]PrintPage, []QualityWarning, error) {
	fixed := make([]PrintPage, len(pages))
	copy(fixed, pages)

	byNumber := make(map[int]int, len(fixed))
	for i := range fixed {
		byNumber[fixed[i].PageNumber] = i
	}

	out := make([]QualityWarning, len(warnings))
	copy(out, warnings)

	for i := range out {
		if !out[i].AutoFixable || out[i].Fixed {
			continue
		}
		idx, ok := byNumber[out[i].Page]
		if !ok {
			continue
		}
		switch out[i].Code {
		case WarnBleedMissing:
			fixed[idx] = fixed[idx].WithBleed(product.Dimensions)
			out[i].Fixed = true
		case WarnColorGamut:
			page, err := fixGamutFills(fixed[idx])
			if err != nil {
				return nil, nil, err
			}
			fixed[idx] = page
			out[i].Fixed = true
		}
	}
	return fixed, out, nil
}

// fixGamutFills rewrites every out-of-gamut fill in the page scene with its
// press-approximation substitute.
func fixGamutFills(page PrintPage) (PrintPage, error) {
	scene, err := DecodeScene(page.Scene)
	if err != nil {
		return page, err
	}
	changed := false

	substitute := func(fill string) string {
		rgb, err := HexToRGB(fill)
		if err != nil || IsInCMYKGamut(rgb) {
			return fill
		}
		changed = true
		return rgb.PressApprox().Hex()
	}

	scene.BackgroundFill = substitute(scene.BackgroundFill)
	for i := range scene.Objects {
		if scene.Objects[i].Fill != "" {
			scene.Objects[i].Fill = substitute(scene.Objects[i].Fill)
		}
	}
	if !changed {
		return page, nil
	}
	raw, err := scene.Encode()
	if err != nil {
		return page, err
	}
	page.Scene = raw
	return page, nil
}
