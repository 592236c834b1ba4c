package agentlogic

import (
	"errors"
	"fmt"
)

// ErrLedgerCorrupt means a team holds more scans of a type than the catalog has creatures.
var ErrLedgerCorrupt = errors.New("scan ledger exceeds type cap")

// TypeCounts is the number of distinct scanned creatures per collectible type.
type TypeCounts map[CreatureType]int

// OwnScans keeps the scan records made by our drones, without duplicates.
func OwnScans(s *Snapshot) []ScanRecord {
	seen := make(map[ScanRecord]struct{}, len(s.Scans))
	var out []ScanRecord
	for _, rec := range s.Scans {
		if !s.OwnsDrone(rec.DroneID) {
			continue
		}
		if _, dup := seen[rec]; dup {
			continue
		}
		seen[rec] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// ScannedIDs returns the distinct creature ids in records.
func ScannedIDs(records []ScanRecord) map[int]struct{} {
	ids := make(map[int]struct{}, len(records))
	for _, rec := range records {
		ids[rec.CreatureID] = struct{}{}
	}
	return ids
}

// CountsByType counts distinct creatures per collectible type. Monster scans are ignored.
func CountsByType(records []ScanRecord, cat *Catalog) (TypeCounts, error) {
	counts := TypeCounts{TypeA: 0, TypeB: 0, TypeC: 0}
	for id := range ScannedIDs(records) {
		cr, err := cat.Lookup(id)
		if err != nil {
			return nil, err
		}
		if cr.Type == Monster {
			continue
		}
		counts[cr.Type]++
	}

	for _, t := range CollectibleTypes {
		if counts[t] > TypeCap {
			return nil, fmt.Errorf("%w: type %s has %d scans, cap %d", ErrLedgerCorrupt, t, counts[t], TypeCap)
		}
	}
	return counts, nil
}

// FourOfAKind reports whether some collectible type has reached TypeCap scans.
func FourOfAKind(records []ScanRecord, cat *Catalog) (bool, error) {
	counts, err := CountsByType(records, cat)
	if err != nil {
		return false, err
	}
	for _, t := range CollectibleTypes {
		if counts[t] == TypeCap {
			return true, nil
		}
	}
	return false, nil
}

// ValidateLedger rejects a snapshot whose own scans break the type cap.
func ValidateLedger(s *Snapshot, cat *Catalog) error {
	_, err := CountsByType(OwnScans(s), cat)
	return err
}
