package fea

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCanonical(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	f := mustParse(t, `languagesystem DFLT dflt;
@lc=[a - c  d];
feature liga{sub f i by f_i;
script latn;language TRK excludeDFLT;
sub \sub by b;} liga;`)
	expected := `languagesystem DFLT dflt;
@lc = [a - c d];

feature liga {
  sub f i by f_i;
  script latn;
  language TRK exclude_dflt;
  sub \sub by b;
} liga;
`
	assert.Equal(t, expected, f.Write())
}

func TestWriteRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	src := `lookup L1 {
  sub a by b;
} L1;

feature test useExtension {
  sub a by b c;
  sub a by NULL;
  sub a from [a.1 a.2];
  sub x [a b]' lookup L1 y;
  rsub x a' by b;
  ignore sub x a', a' y;
  ignore rsub z a';
  pos a   b -10;
  pos cursive a <anchor NULL> <anchor 10 20>;
  lookupflag RightToLeft IgnoreMarks;
} test;
`
	assert.Equal(t, src, mustParse(t, src).Write())
}

func TestWriteIndent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	f := mustParse(t, "feature liga { lookup L { sub f i by f_i; } L; } liga;")
	expected := "feature liga {\n\tlookup L {\n\t\tsub f i by f_i;\n\t} L;\n} liga;\n"
	assert.Equal(t, expected, f.Write(WithIndent("\t")))
}

func TestWriteBodyOnly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	f := mustParse(t, `feature liga {
  sub f i by f_i;
  lookup L1 {
    sub f l by f_l;
  } L1;
} liga;`)
	body := f.Write(BodyOnly())
	assert.Equal(t, "sub f i by f_i;\nlookup L1 {\n  sub f l by f_l;\n} L1;\n", body)
	g := mustParse(t, "feature liga {\n"+body+"} liga;\n")
	assert.Equal(t, f.Write(), g.Write())
}

func TestWriteTo(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	f := mustParse(t, scenario)
	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(scenario)), n)
	assert.Equal(t, scenario, buf.String())
}

func TestWriteRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	for _, name := range []string{"latin.fea", "scripts.fea"} {
		f := mustParse(t, loadFea(t, name))
		out := f.Write()
		g := mustParse(t, out)
		if diff := cmp.Diff(f.Items, g.Items, cmpopts.IgnoreFields(Fragment{}, "Lead")); diff != "" {
			t.Errorf("%s: model differs after writing and re-parsing (-want +got):\n%s", name, diff)
		}
		assert.Equal(t, out, g.Write(), "%s: expected output to be a fixpoint", name)
	}
}
