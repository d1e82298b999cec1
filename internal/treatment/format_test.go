package treatment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleTreatment = `**Diagnosis:** Eczema is usually identified by dry, itchy and inflamed patches of skin.

**Symptoms:**
• Dry, scaly patches
• Intense itching
• Redness and swelling

**Causes:**
- Genetic predisposition
- Environmental irritants

**Treatments (Ordered):**
* Home Remedies: Apply a cold compress for relief
* Non-Prescription Medications: **Hydrocortisone cream** for mild flare-ups

**When to See a Doctor:**
• Signs of infection such as oozing or crusting
`

func TestParse(t *testing.T) {
	sections := Parse(sampleTreatment)
	require.Len(t, sections, 5)

	require.Equal(t, "Diagnosis", sections[0].Title)
	require.Equal(t, "Eczema is usually identified by dry, itchy and inflamed patches of skin.", sections[0].Paragraph)
	require.Empty(t, sections[0].Items)

	require.Equal(t, "Symptoms", sections[1].Title)
	require.Equal(t, []string{"Dry, scaly patches", "Intense itching", "Redness and swelling"}, sections[1].Items)

	require.Equal(t, "Causes", sections[2].Title)
	require.Len(t, sections[2].Items, 2)

	// Bold markers inside items are stripped but the text stays.
	require.Equal(t, "Treatments (Ordered)", sections[3].Title)
	require.Equal(t, "Non-Prescription Medications: Hydrocortisone cream for mild flare-ups", sections[3].Items[1])

	require.Equal(t, "When to See a Doctor", sections[4].Title)
}

// The colon can sit inside or outside the bold markers depending on the model
// output; the title never keeps it.
func TestParseTitleColonPlacement(t *testing.T) {
	inside := Parse("**Diagnosis:** Eczema is itchy.")
	require.Len(t, inside, 1)
	require.Equal(t, "Diagnosis", inside[0].Title)
	require.Equal(t, "Eczema is itchy.", inside[0].Paragraph)

	outside := Parse("**Diagnosis**: Eczema is itchy.")
	require.Len(t, outside, 1)
	require.Equal(t, "Diagnosis", outside[0].Title)
	require.Equal(t, "Eczema is itchy.", outside[0].Paragraph)
}

func TestParseUntitledText(t *testing.T) {
	sections := Parse("Just see a dermatologist.\nSoon.")
	require.Len(t, sections, 1)
	require.Empty(t, sections[0].Title)
	require.Equal(t, "Just see a dermatologist. Soon.", sections[0].Paragraph)
}

func TestParseEmpty(t *testing.T) {
	require.Empty(t, Parse(""))
	require.Empty(t, Parse("\n\n"))
}

func TestParseTitleWithInlineList(t *testing.T) {
	sections := Parse("**Symptoms:** mostly itching\n• Night-time itching\n• Dry skin")
	require.Len(t, sections, 1)
	require.Equal(t, "Symptoms", sections[0].Title)
	require.Equal(t, "mostly itching", sections[0].Paragraph)
	require.Equal(t, []string{"Night-time itching", "Dry skin"}, sections[0].Items)
}

// Parsing must not mutate anything: calling twice yields equal output.
func TestParsePure(t *testing.T) {
	first := Parse(sampleTreatment)
	second := Parse(sampleTreatment)
	require.Equal(t, first, second)
}
