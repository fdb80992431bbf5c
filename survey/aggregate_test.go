package survey

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/JayRathod341997/poll-quiz/csvstore"
	"github.com/JayRathod341997/poll-quiz/models"
	"github.com/JayRathod341997/poll-quiz/poll"
	"github.com/JayRathod341997/poll-quiz/surveyerr"
)

func abcSchema(t *testing.T) *poll.Schema {
	t.Helper()
	s, err := poll.New("ABC", []models.Question{
		{ID: "letters", Prompt: "Pick a letter", Options: []string{"A", "B", "C"}},
		{ID: "often", Prompt: "How often?", Options: []string{"Daily", "Never"}, Chart: models.ChartPie},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func rec(respondent, question, answer string) models.Record {
	return models.Record{
		RespondentID: respondent,
		Timestamp:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		QuestionID:   question,
		Answer:       answer,
	}
}

func TestTally_ZeroFilled(t *testing.T) {
	results := Tally(abcSchema(t), nil)

	series, ok := results.SeriesFor("letters")
	if !ok {
		t.Fatal("series for letters missing")
	}
	want := []models.ValueCount{{Value: "A"}, {Value: "B"}, {Value: "C"}}
	if !reflect.DeepEqual(series.Counts, want) {
		t.Errorf("Counts = %+v, want %+v", series.Counts, want)
	}
	if results.Responses != 0 || results.LastResponseAt != nil {
		t.Errorf("Responses = %d, LastResponseAt = %v, want 0 and nil", results.Responses, results.LastResponseAt)
	}
}

func TestTally_Counts(t *testing.T) {
	records := []models.Record{
		rec("u1", "letters", "A"),
		rec("u2", "letters", "A"),
		rec("u3", "letters", "B"),
		rec("u1", "often", "Never"),
	}
	results := Tally(abcSchema(t), records)

	letters, _ := results.SeriesFor("letters")
	want := []models.ValueCount{{Value: "A", Count: 2}, {Value: "B", Count: 1}, {Value: "C", Count: 0}}
	if !reflect.DeepEqual(letters.Counts, want) {
		t.Errorf("letters = %+v, want %+v", letters.Counts, want)
	}
	if letters.Total != 3 {
		t.Errorf("letters.Total = %d, want 3", letters.Total)
	}
	if letters.Count("C") != 0 || letters.Count("A") != 2 {
		t.Errorf("Count() lookups wrong: %+v", letters)
	}

	often, _ := results.SeriesFor("often")
	if often.Chart != models.ChartPie {
		t.Errorf("often.Chart = %q, want pie", often.Chart)
	}
	if often.Counts[0].Value != "Daily" || often.Counts[1].Count != 1 {
		t.Errorf("often = %+v", often.Counts)
	}

	if results.Responses != 4 {
		t.Errorf("Responses = %d, want 4", results.Responses)
	}
	if results.Respondents != 3 {
		t.Errorf("Respondents = %d, want 3", results.Respondents)
	}
}

func TestTally_SchemaOrder(t *testing.T) {
	// Records arrive in reverse option order; the series keeps the declared order
	records := []models.Record{rec("u1", "letters", "C"), rec("u2", "letters", "B")}
	letters, _ := Tally(abcSchema(t), records).SeriesFor("letters")

	var order []string
	for _, vc := range letters.Counts {
		order = append(order, vc.Value)
	}
	if !reflect.DeepEqual(order, []string{"A", "B", "C"}) {
		t.Errorf("order = %v, want [A B C]", order)
	}

	results := Tally(abcSchema(t), records)
	if results.Series[0].QuestionID != "letters" || results.Series[1].QuestionID != "often" {
		t.Errorf("series order = %s, %s", results.Series[0].QuestionID, results.Series[1].QuestionID)
	}
}

func TestTally_SkipsRecordsOutsideSchema(t *testing.T) {
	records := []models.Record{
		rec("u1", "letters", "A"),
		rec("u1", "retired-question", "A"),
		rec("u1", "letters", "Z"),
	}
	results := Tally(abcSchema(t), records)

	if results.Responses != 1 {
		t.Errorf("Responses = %d, want 1", results.Responses)
	}
	letters, _ := results.SeriesFor("letters")
	if letters.Total != 1 {
		t.Errorf("letters.Total = %d, want 1", letters.Total)
	}
}

func TestTally_LastResponseAtAndAnonymous(t *testing.T) {
	early := rec("", "letters", "A")
	late := rec("", "letters", "B")
	late.Timestamp = early.Timestamp.Add(time.Hour)

	results := Tally(abcSchema(t), []models.Record{late, early})
	if results.LastResponseAt == nil || !results.LastResponseAt.Equal(late.Timestamp) {
		t.Errorf("LastResponseAt = %v, want %v", results.LastResponseAt, late.Timestamp)
	}
	if results.Respondents != 0 {
		t.Errorf("Respondents = %d, want 0 for anonymous records", results.Respondents)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	schema := abcSchema(t)
	store := csvstore.NewAnswerStore(filepath.Join(t.TempDir(), "poll.csv"), schema)
	ctx := context.Background()

	for _, a := range []string{"A", "A", "B"} {
		if err := store.Append(ctx, "u", "letters", a); err != nil {
			t.Fatal(err)
		}
	}

	agg := NewAggregator(schema, store, nil)
	first, err := agg.Aggregate(ctx)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	second, err := agg.Aggregate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Aggregate() not deterministic:\n%+v\n%+v", first, second)
	}

	letters, _ := first.SeriesFor("letters")
	if letters.Count("A") != 2 || letters.Count("B") != 1 || letters.Count("C") != 0 {
		t.Errorf("letters = %+v, want A:2 B:1 C:0", letters.Counts)
	}
}

func TestAggregate_StorageUnavailable(t *testing.T) {
	store := &fakeStore{loadErr: surveyerr.NewStorageError("sheet gone", errors.New("503"))}
	agg := NewAggregator(abcSchema(t), store, nil)

	_, err := agg.Aggregate(context.Background())
	if !errors.Is(err, surveyerr.ErrStorageUnavailable) {
		t.Errorf("Aggregate() error = %v, want ErrStorageUnavailable", err)
	}
	if _, err := agg.Records(context.Background()); !errors.Is(err, surveyerr.ErrStorageUnavailable) {
		t.Errorf("Records() error = %v, want ErrStorageUnavailable", err)
	}
}
