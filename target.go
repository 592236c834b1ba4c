package agentlogic

// SelectTargets picks the collectible type with the fewest creatures left to scan and
// returns those creatures in catalog order. On a tie every tied type is returned.
// Types with nothing left do not compete. Drone i prefers entry i.
func SelectTargets(cat *Catalog, own []ScanRecord) []int {
	scanned := ScannedIDs(own)

	remaining := make(map[CreatureType][]int, len(CollectibleTypes))
	for _, cr := range cat.Creatures() {
		if cr.Type == Monster {
			continue
		}
		if _, done := scanned[cr.ID]; done {
			continue
		}
		remaining[cr.Type] = append(remaining[cr.Type], cr.ID)
	}

	best := -1
	for _, t := range CollectibleTypes {
		n := len(remaining[t])
		// a zero minimum would leave every drone without a target
		if n == 0 {
			continue
		}
		if best < 0 || n < best {
			best = n
		}
	}
	if best < 0 {
		return nil
	}

	tied := make(map[CreatureType]bool, len(CollectibleTypes))
	for _, t := range CollectibleTypes {
		if len(remaining[t]) == best {
			tied[t] = true
		}
	}

	var out []int
	for _, cr := range cat.Creatures() {
		if !tied[cr.Type] {
			continue
		}
		if _, done := scanned[cr.ID]; done {
			continue
		}
		out = append(out, cr.ID)
	}
	return out
}
