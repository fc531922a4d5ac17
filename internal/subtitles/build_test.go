package subtitles

import (
	"strings"
	"testing"

	"bartender/internal/storyboard"
)

func threeSteps() []storyboard.Step {
	return []storyboard.Step{
		{Number: 1, Narration: "Chill a coupe glass.", Caption: " Chill the glass "},
		{Number: 2, Narration: "Add everything to a shaker.", Caption: ""},
		{Number: 3},
	}
}

func TestBuildRendersExpectedDocument(t *testing.T) {
	got := Build(threeSteps(), "  Cheers!  ", DefaultTotal)
	want := "1\n00:00:00,000 --> 00:00:15,000\nChill the glass\n" +
		"\n2\n00:00:15,000 --> 00:00:30,000\nAdd everything to a shaker.\n" +
		"\n3\n00:00:30,000 --> 00:00:45,000\n\n" +
		"\n4\n00:00:45,000 --> 00:01:00,000\nCheers!\n"
	if got != want {
		t.Fatalf("unexpected document:\n%q\nwant:\n%q", got, want)
	}
}

func TestBuildZeroStepsHasOnlyClosingCue(t *testing.T) {
	got := Build(nil, "Bye", DefaultTotal)
	if got != "1\n00:00:00,000 --> 00:01:00,000\nBye\n" {
		t.Fatalf("unexpected document %q", got)
	}
}

func TestBuildCuesIndexesAndCountMatch(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, 12} {
		steps := make([]storyboard.Step, n)
		for i := range steps {
			steps[i] = storyboard.Step{Number: i + 1, Caption: "step"}
		}
		doc := Build(steps, "done", DefaultTotal)
		if got := CountCues(doc); got != n+1 {
			t.Fatalf("n=%d: CountCues = %d, want %d", n, got, n+1)
		}
		if issues := Validate(doc, DefaultTotal); len(issues) != 0 {
			t.Fatalf("n=%d: unexpected issues %v", n, issues)
		}
	}
}

func TestBuildSevenStepsRoundsWithoutGaps(t *testing.T) {
	steps := make([]storyboard.Step, 6)
	for i := range steps {
		steps[i] = storyboard.Step{Number: i + 1, Narration: "n"}
	}
	doc := Build(steps, "end", DefaultTotal)
	if !strings.Contains(doc, "00:00:08,571 --> 00:00:17,143") {
		t.Fatalf("expected rounded boundaries, got:\n%s", doc)
	}
	if !strings.HasSuffix(doc, "--> 00:01:00,000\nend\n") {
		t.Fatalf("expected closing cue to end at 60s:\n%s", doc)
	}
}

func TestBuildStoryboardUsesClosingLine(t *testing.T) {
	sb := storyboard.Storyboard{Steps: threeSteps()[:1], ClosingLine: "Salute"}
	if doc := BuildStoryboard(sb, 10); !strings.Contains(doc, "00:00:05,000 --> 00:00:10,000\nSalute") {
		t.Fatalf("unexpected document %q", doc)
	}
}
