package redis

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/Shourya125/dashboard/internal/db"
	"github.com/Shourya125/dashboard/internal/domain/search/filter"
)

func int64Ptr(v int64) *int64 { return &v }

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.Ping(context.Background())
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpPing {
		t.Fatalf("expected db.Error with op PING, got %v", err)
	}
}

func TestWaitForReady_ImmediatePing(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.WaitForReady(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- json.go tests ---

func TestJSONGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", "news:1", "$")).
		Return(mock.Result(mock.RedisString(`[{"title":"a"}]`)))

	s := NewStoreForTest(c)
	data, err := s.JSONGet(context.Background(), "news:1", "$")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `[{"title":"a"}]` {
		t.Errorf("unexpected data: %s", data)
	}
}

func TestJSONGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.GET"
		})).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.JSONGet(context.Background(), "news:missing", "$")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestJSONGet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.GET"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.JSONGet(context.Background(), "news:1", "$")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, db.ErrKeyNotFound) {
		t.Error("should not be ErrKeyNotFound for network errors")
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var got []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			got = cmd
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	def := db.NewIndex("idx:news").
		OnJSON().
		Prefix("news:").
		Text("$.title", "title", 5).
		Numeric("$.published_at", "published_at", true).
		Tag("$.author", "author").
		MustBuild()

	s := NewStoreForTest(c)
	if err := s.CreateIndex(context.Background(), def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	joined := strings.Join(got, " ")
	for _, want := range []string{
		"FT.CREATE idx:news ON JSON PREFIX 1 news: SCHEMA",
		"$.title AS title TEXT WEIGHT 5",
		"$.published_at AS published_at NUMERIC SORTABLE",
		"$.author AS author TAG",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("command %q missing %q", joined, want)
		}
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	err := s.CreateIndex(context.Background(), db.NewIndex("idx").Numeric("n", "", false).MustBuild())
	if !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_NoFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	s := NewStoreForTest(c)
	if err := s.CreateIndex(context.Background(), &db.IndexDefinition{Name: "idx"}); err == nil {
		t.Fatal("expected error for empty schema")
	}
}

func TestIndexExists(t *testing.T) {
	tests := []struct {
		name    string
		reply   rueidis.RedisResult
		want    bool
		wantErr bool
	}{
		{"exists", mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("idx"))), true, false},
		{"unknown", mock.Result(mock.RedisError("Unknown Index name")), false, false},
		{"no such index", mock.Result(mock.RedisError("idx: no such index")), false, false},
		{"network", mock.ErrorResult(context.DeadlineExceeded), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)

			c.EXPECT().
				Do(gomock.Any(), mock.Match("FT.INFO", "idx")).
				Return(tt.reply)

			s := NewStoreForTest(c)
			got, err := s.IndexExists(context.Background(), "idx")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("exists = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- search.go tests ---

func TestSearch_WithScores(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var got []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			got = cmd
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(57),
			mock.RedisString("news:1"),
			mock.RedisString("2.5"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{"title":"bail"}`)),
			mock.RedisString("news:2"),
			mock.RedisString("1.25"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{"title":"order"}`)),
		)))

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.TextQuery{
		IndexName:  "idx:news",
		Text:       "bail",
		Limit:      20,
		WithScores: true,
		Scorer:     "BM25STD",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 57 {
		t.Errorf("total = %d, want 57", res.Total)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(res.Entries))
	}
	if res.Entries[0].Key != "news:1" || res.Entries[0].Score != 2.5 {
		t.Errorf("entry[0] = %+v", res.Entries[0])
	}
	if res.Entries[1].Fields["$"] != `{"title":"order"}` {
		t.Errorf("entry[1] fields = %v", res.Entries[1].Fields)
	}

	want := []string{"FT.SEARCH", "idx:news", "bail", "WITHSCORES", "SCORER", "BM25STD", "LIMIT", "0", "20", "DIALECT", "2"}
	if !slices.Equal(got, want) {
		t.Errorf("command = %v, want %v", got, want)
	}
}

func TestSearch_SortedWithoutScores(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var got []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			got = cmd
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("archive:9"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{"Date":"01.01.1950"}`)),
		)))

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.TextQuery{
		IndexName: "idx:archive",
		Offset:    40,
		Limit:     20,
		SortBy:    "date_ts",
		SortDesc:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 1 || res.Entries[0].Key != "archive:9" {
		t.Fatalf("entries = %+v", res.Entries)
	}
	if res.Entries[0].Score != 0 {
		t.Errorf("score = %f, want 0 without WITHSCORES", res.Entries[0].Score)
	}

	want := []string{"FT.SEARCH", "idx:archive", "*", "SORTBY", "date_ts", "DESC", "LIMIT", "40", "20", "DIALECT", "2"}
	if !slices.Equal(got, want) {
		t.Errorf("command = %v, want %v", got, want)
	}
}

func TestSearch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.TextQuery{IndexName: "idx", Limit: 10, WithScores: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || len(res.Entries) != 0 {
		t.Errorf("result = %+v, want empty", res)
	}
}

func TestSearch_UnknownIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisError("idx:news: no such index")))

	s := NewStoreForTest(c)
	_, err := s.Search(context.Background(), &db.TextQuery{IndexName: "idx:news", Limit: 10})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestSearch_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.Search(context.Background(), &db.TextQuery{IndexName: "idx", Limit: 10})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpSearch {
		t.Fatalf("expected db.Error with op FT.SEARCH, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped deadline error, got %v", err)
	}
}

func TestSearch_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	s := NewStoreForTest(c)

	tests := []struct {
		name string
		q    db.TextQuery
	}{
		{"no index", db.TextQuery{Limit: 1}},
		{"negative offset", db.TextQuery{IndexName: "i", Offset: -1, Limit: 1}},
		{"negative limit", db.TextQuery{IndexName: "i", Limit: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Search(context.Background(), &tt.q); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

// --- query.go tests ---

func TestBuildQuery(t *testing.T) {
	rng, _ := filter.Between("published_at", int64Ptr(1704067200000), int64Ptr(1706745599999))
	open, _ := filter.Between("ts", nil, int64Ptr(5))
	flag, _ := filter.AnyOf("legislative_value", "true")
	ministry, _ := filter.AnyOf("ministry_tag", "Law & Justice", "Finance")
	typos := db.TypoTolerance{OneTypo: 4, TwoTypos: 8}

	tests := []struct {
		name string
		q    db.TextQuery
		want string
	}{
		{"empty matches all", db.TextQuery{}, "*"},
		{"punctuation only", db.TextQuery{Text: "  -- @@ "}, "*"},
		{"short tokens exact", db.TextQuery{Text: "an act", Typos: typos}, "an act"},
		{
			"one typo",
			db.TextQuery{Text: "Court", Typos: typos},
			"(court|%court%)",
		},
		{
			"two typos",
			db.TextQuery{Text: "judgement", Typos: typos},
			"(judgement|%%judgement%%)",
		},
		{"numbers stay exact", db.TextQuery{Text: "2024", Typos: typos}, "2024"},
		{"syntax stripped", db.TextQuery{Text: `@title:{x} | -y*`}, "title x y"},
		{"devanagari words stay whole", db.TextQuery{Text: "भारत सरकार"}, "भारत सरकार"},
		{
			"devanagari fuzzy",
			db.TextQuery{Text: "भारत, सरकार!", Typos: typos},
			"(भारत|%भारत%) (सरकार|%सरकार%)",
		},
		{
			"tag filter",
			db.TextQuery{Filters: filter.And(flag)},
			"@legislative_value:{true}",
		},
		{
			"tag values escaped",
			db.TextQuery{Filters: filter.And(ministry)},
			`@ministry_tag:{Law\ \&\ Justice|Finance}`,
		},
		{
			"range tag and text",
			db.TextQuery{Text: "bail", Filters: filter.And(rng, flag)},
			"@published_at:[1704067200000 1706745599999] @legislative_value:{true} bail",
		},
		{
			"filter only",
			db.TextQuery{Filters: filter.And(rng)},
			"@published_at:[1704067200000 1706745599999]",
		},
		{
			"filter and text",
			db.TextQuery{Text: "bail", Filters: filter.And(open)},
			"@ts:[-inf 5] bail",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildQuery(&tt.q); got != tt.want {
				t.Errorf("buildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
