package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const publicationPage = `Bordereau A5 n° 2024-12
Publications - examen des candidatures
UM : 4100 DIRECTION REGIONALE SUD
DUM : 4110 Agence Marseille
SDUM : 4111
FSDUM : 4111-2 Equipe réseau Est
Emploi : Technicien d'exploitation Lieu de travail Marseille Publié sous le n° 2024-0042
Nombre d'emploi(s) 2 Saint-Charles Date de forclusion 15/03/2024
Motif Remplacement Position Vacant GF de publication GF 7-9
CERNE :` + "\u00a0" + `12345   Référence MyHR  REF-778
Nom Prénom Date candidature Avis`

func TestParse(t *testing.T) {
	r := Parse(publicationPage)

	expected := map[Field]string{
		UMCode:         "4100",
		UMLabel:        "DIRECTION REGIONALE SUD",
		DUMCode:        "4110",
		DUMLabel:       "Agence Marseille",
		SDUMCode:       "4111",
		FSDUMCode:      "4111-2",
		FSDUMLabel:     "Equipe réseau Est",
		Job:            "Technicien d'exploitation",
		Workplace:      "Marseille Saint-Charles",
		PublishedUnder: "2024-0042",
		JobCount:       "2",
		ClosingDate:    "15/03/2024",
		Reason:         "Remplacement",
		Position:       "Vacant",
		PublicationGF:  "GF 7-9",
		CERNE:          "12345",
		MyHRReference:  "REF-778",
	}

	for field, want := range expected {
		got, ok := r.Get(field)
		assert.True(t, ok, "field %s should be set", field)
		assert.Equal(t, want, got, "field %s", field)
	}

	_, ok := r.Get(SDUMLabel)
	assert.False(t, ok, "code-only line leaves the label unset")
}

func TestParse_FieldOrderAndNames(t *testing.T) {
	names := Names()
	require.Len(t, names, 18)
	assert.Equal(t, "UM_code", names[0])
	assert.Equal(t, "Emploi_candidature", names[8])
	assert.Equal(t, "Reference_My_HR", names[17])
	assert.Equal(t, "Date_de_forclusion", ClosingDate.String())

	r := Parse("UM : 1 Siège")
	values := r.Values()
	require.Len(t, values, 18)
	assert.Equal(t, []string{"1", "Siège", ""}, values[:3])
}

func TestParse_EmptyAndUnrelatedText(t *testing.T) {
	assert.True(t, Parse("").IsEmpty())
	assert.True(t, Parse("Dupont Jean\nMartin Paul\nUM :").IsEmpty())
}

func TestParse_UnmatchedPatternsLeaveFieldsUnset(t *testing.T) {
	r := Parse("Emploi : Technicien sans lieu\nMotif inconnu\nCERNE : 123")

	for _, f := range []Field{Job, Workplace, PublishedUnder, Reason, Position, PublicationGF, CERNE, MyHRReference} {
		_, ok := r.Get(f)
		assert.False(t, ok, "field %s", f)
	}
}

func TestParse_JobCountWithoutWorkplace(t *testing.T) {
	r := Parse("Nombre d’emploi(s) 1 Aix Date de forclusion 01/02/2025")

	count, _ := r.Get(JobCount)
	workplace, _ := r.Get(Workplace)
	date, _ := r.Get(ClosingDate)

	assert.Equal(t, "1", count)
	assert.Equal(t, "Aix", workplace)
	assert.Equal(t, "01/02/2025", date)
}

func TestParse_PrefixDispatchIsExclusive(t *testing.T) {
	// "SDUM :" must not be read by the "UM :" rule and vice versa.
	r := Parse("SDUM : 77 Sous direction\nDUM : 66 Direction")

	_, umSet := r.Get(UMCode)
	sdum, _ := r.Get(SDUMCode)
	dum, _ := r.Get(DUMCode)

	assert.False(t, umSet)
	assert.Equal(t, "77", sdum)
	assert.Equal(t, "66", dum)
}

func TestParse_DecomposedAccents(t *testing.T) {
	// e followed by a combining acute accent, as some PDF encoders emit it
	decomposed := "Emploi : Agent Lieu de travail Lyon Publie\u0301 sous le n° 9"

	r := Parse(decomposed)
	published, ok := r.Get(PublishedUnder)
	assert.True(t, ok)
	assert.Equal(t, "9", published)
}

func TestField_StringOutOfRange(t *testing.T) {
	assert.Equal(t, "unknown", Field(-1).String())
	assert.Equal(t, "unknown", fieldCount.String())
}
