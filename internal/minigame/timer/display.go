package timer

// Display is the single floating countdown shown above time-bounded games.
type Display struct {
	Visible bool `json:"visible"`
	Reading
}

// Update folds a reading into the display and reports whether anything a
// viewer can see changed. Sub-second movement within the same label is not
// a change.
func (d *Display) Update(r Reading) bool {
	changed := !d.Visible ||
		d.Seconds != r.Seconds ||
		d.Phase != r.Phase ||
		d.Expired != r.Expired
	d.Visible = true
	d.Reading = r
	return changed
}

// Hide clears the display.
func (d *Display) Hide() bool {
	if !d.Visible {
		return false
	}
	*d = Display{}
	return true
}
