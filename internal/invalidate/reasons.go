package invalidate

// reasonText maps each trigger to its user-facing explanation. Kept apart
// from Detect so the decision logic is testable without string matching.
var reasonText = map[Trigger]string{
	TriggerPartAdded:             "parts were added to the cutlist",
	TriggerPartRemoved:           "parts were removed from the cutlist",
	TriggerPartDimensionsChanged: "part dimensions or attributes changed",
	TriggerPaletteMappingChanged: "material palette mappings changed",
	TriggerStockConfigChanged:    "stock sheets or optimization settings changed",
	TriggerDesignItemAdded:       "a linked design item was added",
	TriggerDesignItemRemoved:     "a linked design item was removed",
	TriggerDesignItemModified:    "a linked design item was modified",
	TriggerKatanaBOMStale:        "the exported Katana BOM no longer matches the nesting",
}

// Explain renders a detection outcome into human-readable reasons, one per
// trigger, in trigger order.
func Explain(res InvalidationResult) []string {
	reasons := make([]string, 0, len(res.Triggers))
	for _, t := range res.Triggers {
		if text, ok := reasonText[t]; ok {
			reasons = append(reasons, text)
		} else {
			reasons = append(reasons, string(t))
		}
	}
	return reasons
}
