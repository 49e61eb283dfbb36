package prc

import "fmt"

// Validate runs advisory checks against the PRC application
// conventions. The returned warnings never block decoding or
// extraction. By default only the resource database bit is checked;
// strict mode reports every convention violation, including fields
// that applications are expected to leave zero.
func (h *Header) Validate(strict bool) []string {
	var warnings []string

	if h.Flags&FlagResourceDB == 0 {
		warnings = append(warnings,
			fmt.Sprintf("flags 0x%04x missing resource database bit (not a PRC application?)", h.Flags))
	}
	if !strict {
		return warnings
	}

	if h.Version != 0x01 {
		warnings = append(warnings, fmt.Sprintf("version 0x%04x is not 0x0001", h.Version))
	}
	if s := h.Type.String(); s != "appl" {
		warnings = append(warnings, fmt.Sprintf("type %q is not \"appl\" (not an application?)", s))
	}
	if h.ModNum != 0 {
		warnings = append(warnings, fmt.Sprintf("mod_num should be 0, got %d", h.ModNum))
	}
	if h.AppInfoOffset != 0 {
		warnings = append(warnings, fmt.Sprintf("app_info should be 0, got 0x%08x", h.AppInfoOffset))
	}
	if h.SortInfoOffset != 0 {
		warnings = append(warnings, fmt.Sprintf("sort_info should be 0, got 0x%08x", h.SortInfoOffset))
	}
	if h.UniqueIDSeed != 0 {
		warnings = append(warnings, fmt.Sprintf("unique_id_seed should be 0, got 0x%08x", h.UniqueIDSeed))
	}
	if h.NextRecordList != 0 {
		warnings = append(warnings, fmt.Sprintf("next_record_list should be 0, got 0x%08x", h.NextRecordList))
	}
	return warnings
}
