package recipe

import (
	"fmt"
	"strings"
)

// NotFoundMessage is the whole rendering of a "no recipe" record.
const NotFoundMessage = "No recipe could be identified in the image."

// Format renders a record as plain text for display or copying.
func Format(r *Record) string {
	if r == nil || r.IsNotFound() {
		return NotFoundMessage
	}

	var b strings.Builder

	if name := strings.TrimSpace(r.Name); name != "" {
		b.WriteString(name + "\n\n")
	}
	if desc := strings.TrimSpace(r.Description); desc != "" {
		b.WriteString(desc + "\n\n")
	}

	var meta []string
	if r.Yield != "" {
		meta = append(meta, "Yield: "+r.Yield)
	}
	if r.PrepTime != "" {
		meta = append(meta, "Prep Time: "+HumanDuration(r.PrepTime))
	}
	if r.CookTime != "" {
		meta = append(meta, "Cook Time: "+HumanDuration(r.CookTime))
	}
	if r.Category != "" {
		meta = append(meta, "Category: "+r.Category)
	}
	if r.Cuisine != "" {
		meta = append(meta, "Cuisine: "+r.Cuisine)
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, "\n") + "\n\n")
	}

	b.WriteString("Ingredients:\n")
	if len(r.Ingredients) == 0 {
		b.WriteString("No ingredients found.\n")
	}
	for _, ing := range r.Ingredients {
		b.WriteString("- " + ing + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Instructions:\n")
	if len(r.Instructions) == 0 {
		b.WriteString("No instructions found.\n")
	}
	for i, in := range r.Instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, InstructionText(in))
	}

	if r.Keywords != "" {
		b.WriteString("\nKeywords: " + r.Keywords + "\n")
	}

	return strings.TrimSpace(b.String())
}
