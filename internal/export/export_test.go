package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ethnosapp/ethnos/internal/docgen"
	"github.com/ethnosapp/ethnos/internal/download"
	"github.com/ethnosapp/ethnos/internal/notify"
	"github.com/ethnosapp/ethnos/internal/work"
)

var testNow = time.Date(2026, 3, 15, 14, 30, 5, 0, time.UTC)

type fakeFetcher struct {
	records map[int]*work.EnrichedWork
	calls   int
}

func (f *fakeFetcher) FetchDetailsBatch(_ context.Context, ids []int) map[int]*work.EnrichedWork {
	f.calls++
	out := make(map[int]*work.EnrichedWork)
	for _, id := range ids {
		if w, ok := f.records[id]; ok {
			out[id] = w
		}
	}
	return out
}

type recordingNotifier struct {
	levels   []notify.Level
	messages []string
}

func (n *recordingNotifier) Notify(level notify.Level, message string) {
	n.levels = append(n.levels, level)
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) has(level notify.Level, substr string) bool {
	for i, m := range n.messages {
		if n.levels[i] == level && strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func savedItem(id int, title string) work.SavedItem {
	return work.SavedItem{
		ID:      id,
		Title:   title,
		Type:    "article",
		AddedAt: testNow.Add(-time.Duration(id) * time.Hour),
	}
}

func enrichedWork(id int) *work.EnrichedWork {
	return &work.EnrichedWork{
		ID:       id,
		Title:    "Parentesco e Ritual",
		Subtitle: "um estudo comparativo",
		WorkType: "article",
		Language: "pt",
		Abstract: "Análise comparativa de sistemas de parentesco.",
		DOI:      "10.1590/s0100-85872020000100001",
		Authors: []work.EnrichedAuthor{
			{Name: "Maria Souza Lima", ORCID: "0000-0002-1825-0097", Role: "AUTHOR"},
			{Name: "João Pereira"},
		},
		Publication: &work.Publication{
			Year: "2020", Volume: "40", Issue: "2", Pages: "115-142",
			OpenAccess: true, PeerReviewed: true,
		},
		Venue:     &work.Venue{Name: "Religião & Sociedade", ISSN: "0100-8587"},
		Publisher: &work.Publisher{Name: "ISER"},
		Metrics:   &work.Metrics{CitationCount: 12, HasCitations: true},
	}
}

func TestResolvePrefersEnrichedFields(t *testing.T) {
	item := work.SavedItem{
		ID:              5,
		Title:           "titulo local",
		PublicationYear: "2019",
		VenueName:       "venue local",
		Type:            "article",
		AddedAt:         testNow,
	}

	r := Resolve(item, enrichedWork(5))
	if r.Provenance != SourceEnriched {
		t.Fatal("provenance = SourceLocal, want SourceEnriched")
	}
	if r.Title != "Parentesco e Ritual" {
		t.Errorf("title = %q", r.Title)
	}
	if r.Year != "2020" {
		t.Errorf("year = %q, want 2020 from nested publication", r.Year)
	}
	if r.VenueName != "Religião & Sociedade" || r.ISSN != "0100-8587" {
		t.Errorf("venue = %q issn = %q", r.VenueName, r.ISSN)
	}
	if r.Pages != "115-142" || r.Volume != "40" {
		t.Errorf("pages = %q volume = %q", r.Pages, r.Volume)
	}
	if len(r.Authors) != 2 || r.Authors[0].ORCID != "0000-0002-1825-0097" {
		t.Errorf("authors = %+v", r.Authors)
	}
	if !r.OpenAccess || !r.PeerReviewed {
		t.Error("expected open access and peer reviewed flags")
	}
}

func TestResolveLocalOnly(t *testing.T) {
	item := work.SavedItem{
		ID:              7,
		Title:           "Somente Local",
		Authors:         work.AuthorList{FreeText: "Ana Castro; Bruno Dias"},
		PublicationYear: "2015",
		VenueName:       "Revista Local",
		Type:            "article",
		AddedAt:         testNow,
	}

	r := Resolve(item, nil)
	if r.Provenance != SourceLocal {
		t.Fatal("provenance = SourceEnriched, want SourceLocal")
	}
	if r.Title != "Somente Local" || r.Year != "2015" {
		t.Errorf("title = %q year = %q", r.Title, r.Year)
	}
	if r.AuthorsFreeText != "Ana Castro; Bruno Dias" || len(r.Authors) != 0 {
		t.Errorf("authors free text = %q, structured = %+v", r.AuthorsFreeText, r.Authors)
	}
	if r.DOI != "" || r.Abstract != "" {
		t.Error("local-only resolution must not invent DOI or abstract")
	}
}

func TestResolveAllKeepsOrderAndUnenrichedItems(t *testing.T) {
	items := []work.SavedItem{savedItem(1, "Primeiro"), savedItem(2, "Segundo"), savedItem(3, "Terceiro")}
	enriched := map[int]*work.EnrichedWork{1: enrichedWork(1), 3: enrichedWork(3)}

	resolved := ResolveAll(items, enriched)
	if len(resolved) != 3 {
		t.Fatalf("len = %d, want 3 (unenriched items kept)", len(resolved))
	}
	if resolved[0].ID != 1 || resolved[1].ID != 2 || resolved[2].ID != 3 {
		t.Errorf("order = %d,%d,%d", resolved[0].ID, resolved[1].ID, resolved[2].ID)
	}
	if resolved[1].Provenance != SourceLocal {
		t.Error("item 2 should resolve from local fields")
	}
	if resolved[1].Title != "Segundo" {
		t.Errorf("item 2 title = %q", resolved[1].Title)
	}
}

func TestCiteKey(t *testing.T) {
	r := Resolve(savedItem(5, "x"), enrichedWork(5))
	if got := CiteKey(&r); got != "lima2020work5" {
		t.Errorf("CiteKey = %q, want lima2020work5", got)
	}

	noAuthor := Resolved{ID: 9}
	if got := CiteKey(&noAuthor); got != "work9" {
		t.Errorf("CiteKey = %q, want work9", got)
	}

	noYear := Resolved{ID: 3, Authors: []ResolvedAuthor{{Name: "Clarice Lispector"}}}
	if got := CiteKey(&noYear); got != "lispectornodatework3" {
		t.Errorf("CiteKey = %q, want lispectornodatework3", got)
	}
}

func TestBibtexEntryTypes(t *testing.T) {
	tests := []struct {
		workType, venue, want string
	}{
		{"ARTICLE", "Revista", "article"},
		{"ARTICLE", "", "misc"},
		{"BOOK", "", "book"},
		{"CHAPTER", "Coletânea", "incollection"},
		{"CONFERENCE", "Anais", "inproceedings"},
		{"THESIS", "", "phdthesis"},
		{"REPORT", "", "techreport"},
		{"PREPRINT", "Revista", "article"},
		{"PREPRINT", "", "misc"},
	}
	for _, tt := range tests {
		if got := bibtexEntryType(tt.workType, tt.venue); got != tt.want {
			t.Errorf("bibtexEntryType(%q, %q) = %q, want %q", tt.workType, tt.venue, got, tt.want)
		}
	}
}

func TestRenderBibTeXContent(t *testing.T) {
	resolved := ResolveAll(
		[]work.SavedItem{savedItem(5, "x"), savedItem(6, "Somente Local")},
		map[int]*work.EnrichedWork{5: enrichedWork(5)},
	)
	out := RenderBibTeX(resolved, testNow)

	for _, want := range []string{
		"BIBLIOGRAFIA BIBTEX",
		"% Exportado em: 15/03/2026 às 14:30:05",
		"% Total de referências: 2",
		"% Dados completos obtidos: 1",
		"% -------- Referência 1/2 --------",
		"@article{lima2020work5,",
		"author    = {Lima, Maria Souza and Pereira, João},",
		"title     = {Parentesco e Ritual - um estudo comparativo},",
		"journal   = {Religião & Sociedade},",
		"doi       = {10.1590/s0100-85872020000100001},",
		"note      = {Open Access, Peer Reviewed},",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	// Portuguese-language works omit the language field.
	if strings.Contains(out, "language") {
		t.Error("language field should be omitted for pt works")
	}
}

func TestBibTeXRoundTrip(t *testing.T) {
	resolved := ResolveAll(
		[]work.SavedItem{savedItem(5, "x"), savedItem(6, "Somente Local")},
		map[int]*work.EnrichedWork{5: enrichedWork(5)},
	)
	out := RenderBibTeX(resolved, testNow)

	entries, err := ParseBibTeX(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseBibTeX: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].WorkID != 5 || entries[1].WorkID != 6 {
		t.Errorf("work ids = %d, %d", entries[0].WorkID, entries[1].WorkID)
	}
	if entries[0].Year != "2020" {
		t.Errorf("year = %q", entries[0].Year)
	}
	if entries[0].DOI != "10.1590/s0100-85872020000100001" {
		t.Errorf("doi = %q", entries[0].DOI)
	}
	if entries[1].Title != "Somente Local" {
		t.Errorf("title = %q", entries[1].Title)
	}
}

func TestRISRoundTrip(t *testing.T) {
	resolved := ResolveAll(
		[]work.SavedItem{savedItem(5, "x"), savedItem(6, "Somente Local")},
		map[int]*work.EnrichedWork{5: enrichedWork(5)},
	)
	out := RenderRIS(resolved, testNow)

	records, err := ParseRIS(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseRIS: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].WorkID != 5 || records[0].Type != "JOUR" {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[0].Year != "2020" || records[0].DOI != "10.1590/s0100-85872020000100001" {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[1].WorkID != 6 || records[1].Title != "Somente Local" {
		t.Errorf("record 1 = %+v", records[1])
	}
}

func TestRenderRISTags(t *testing.T) {
	resolved := ResolveAll([]work.SavedItem{savedItem(5, "x")},
		map[int]*work.EnrichedWork{5: enrichedWork(5)})
	out := RenderRIS(resolved, testNow)

	for _, want := range []string{
		"TY  - JOUR\n",
		"ID  - 5\n",
		"TI  - Parentesco e Ritual - um estudo comparativo\n",
		"AU  - Maria Souza Lima\n",
		"UR  - https://orcid.org/0000-0002-1825-0097\n",
		"JO  - Religião & Sociedade\n",
		"SP  - 115\n",
		"EP  - 142\n",
		"LA  - por\n",
		"KW  - peer-reviewed, open-access, article\n",
		"DB  - ethnos_app\n",
		"DP  - Ethnos Academic Database\n",
		"DA  - 2026-03-15\n",
		"ER  - \n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestAbstractTruncationKeepsValidUTF8(t *testing.T) {
	// The leading ASCII byte shifts every two-byte rune onto an odd
	// offset, so both the 300-byte BibTeX cut and the 1000-byte RIS cut
	// land mid-rune.
	abstract := "A" + strings.Repeat("ç", 600)
	ew := enrichedWork(5)
	ew.Abstract = abstract
	r := Resolve(savedItem(5, "x"), ew)

	bib := BibTeXEntry(&r)
	if !utf8.ValidString(bib) {
		t.Error("BibTeX entry contains invalid UTF-8 after truncation")
	}

	ris := RenderRIS([]Resolved{r}, testNow)
	if !utf8.ValidString(ris) {
		t.Error("RIS output contains invalid UTF-8 after truncation")
	}
}

func TestTruncateRuneBoundary(t *testing.T) {
	// "é" is two bytes; cutting at 3 falls inside it.
	if got := truncate("abé", 3); got != "ab..." {
		t.Errorf("truncate = %q, want %q", got, "ab...")
	}
	if got := truncate("abc", 3); got != "abc" {
		t.Errorf("truncate = %q, want input unchanged", got)
	}
	if !utf8.ValidString(truncate(strings.Repeat("ç", 200), 301)) {
		t.Error("truncated string is not valid UTF-8")
	}
}

func TestRISPagesWithoutRange(t *testing.T) {
	var b strings.Builder
	writeRISPages(&b, "99")
	if got := b.String(); got != "SP  - 99\n" {
		t.Errorf("got %q", got)
	}
}

func TestABNTReference(t *testing.T) {
	r := Resolve(savedItem(5, "x"), enrichedWork(5))
	got := abntReference(&r, testNow)

	want := "LIMA, Maria Souza; PEREIRA, João. Parentesco e Ritual: um estudo comparativo. " +
		"Religião & Sociedade, v. 40, n. 2, ISER, 2020. p. 115-142. " +
		"Disponível em: https://doi.org/10.1590/s0100-85872020000100001. Acesso em: 15/03/2026."
	if got != want {
		t.Errorf("reference:\n got %q\nwant %q", got, want)
	}
}

func TestABNTReferenceDefaults(t *testing.T) {
	r := Resolved{ID: 1}
	got := abntReference(&r, testNow)
	want := "AUTOR NÃO INFORMADO. Título não informado. S.d."
	if got != want {
		t.Errorf("reference = %q, want %q", got, want)
	}
}

func TestBuildABNTDocument(t *testing.T) {
	resolved := ResolveAll(
		[]work.SavedItem{savedItem(5, "x"), savedItem(6, "Somente Local")},
		map[int]*work.EnrichedWork{5: enrichedWork(5)},
	)
	doc := BuildABNTDocument(resolved, testNow)

	if len(doc.Sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(doc.Sections))
	}
	header := doc.Sections[0]
	if header.Paragraphs[0].Text != "INFORMAÇÕES DA EXPORTAÇÃO" || !header.Paragraphs[0].Bold {
		t.Errorf("header = %+v", header.Paragraphs[0])
	}
	if header.Paragraphs[2].Text != "Total de referências: 2" {
		t.Errorf("total line = %q", header.Paragraphs[2].Text)
	}
	if header.Paragraphs[3].Text != "Dados completos obtidos: 1" {
		t.Errorf("enriched line = %q", header.Paragraphs[3].Text)
	}

	refs := doc.Sections[1]
	if refs.Paragraphs[0].Text != "REFERÊNCIAS" {
		t.Errorf("refs header = %q", refs.Paragraphs[0].Text)
	}
	if len(refs.Paragraphs) != 3 {
		t.Fatalf("reference paragraphs = %d, want header + 2", len(refs.Paragraphs))
	}
	if refs.Paragraphs[1].Alignment != docgen.AlignJustify {
		t.Error("references should be justified")
	}

	stats := doc.Sections[2]
	if stats.Paragraphs[2].Text != "Com resumo: 1 (50%)" {
		t.Errorf("abstract stat = %q", stats.Paragraphs[2].Text)
	}
	last := stats.Paragraphs[len(stats.Paragraphs)-1]
	if !last.Italic || last.Alignment != docgen.AlignCenter {
		t.Errorf("footer paragraph = %+v", last)
	}
}

func TestPercentRounding(t *testing.T) {
	if got := percent(1, 3); got != 33 {
		t.Errorf("percent(1,3) = %d, want 33", got)
	}
	if got := percent(2, 3); got != 67 {
		t.Errorf("percent(2,3) = %d, want 67", got)
	}
	if got := percent(0, 0); got != 0 {
		t.Errorf("percent(0,0) = %d, want 0", got)
	}
}

func TestJSONEnvelope(t *testing.T) {
	resolved := ResolveAll(
		[]work.SavedItem{savedItem(1, "A"), savedItem(2, "B"), savedItem(3, "C")},
		map[int]*work.EnrichedWork{1: enrichedWork(1), 3: enrichedWork(3)},
	)
	env := BuildJSONExport(resolved, testNow)

	if env.Metadata.Format != "ethnos_json_export" || env.Metadata.Version != "2.1" {
		t.Errorf("metadata = %+v", env.Metadata)
	}
	if env.Metadata.DataQuality != "partial" {
		t.Errorf("data quality = %q, want partial", env.Metadata.DataQuality)
	}
	if env.Metadata.APICallsSuccessful != 2 {
		t.Errorf("api calls = %d, want 2", env.Metadata.APICallsSuccessful)
	}
	if env.ExportInfo.DataCompletenessRatio != "66.7%" {
		t.Errorf("ratio = %q, want 66.7%%", env.ExportInfo.DataCompletenessRatio)
	}
	if env.ExportInfo.FallbackRecords != 1 {
		t.Errorf("fallback records = %d", env.ExportInfo.FallbackRecords)
	}

	// AddedAt for id 3 is the oldest, id 1 the newest.
	if env.ExportInfo.EarliestAdded == nil || env.ExportInfo.LatestAdded == nil {
		t.Fatal("added window unset")
	}
	if *env.ExportInfo.EarliestAdded >= *env.ExportInfo.LatestAdded {
		t.Error("earliest should precede latest")
	}

	if len(env.Works) != 3 {
		t.Fatalf("works = %d", len(env.Works))
	}
	if env.Works[0].UserMeta.DataSource != "api_enhanced" {
		t.Errorf("works[0] data_source = %q", env.Works[0].UserMeta.DataSource)
	}
	if env.Works[1].UserMeta.DataSource != "local_storage" {
		t.Errorf("works[1] data_source = %q", env.Works[1].UserMeta.DataSource)
	}
	if env.Works[0].Authors[0].Position != 1 || env.Works[0].Authors[1].Position != 2 {
		t.Error("author positions should be 1-based")
	}
}

func TestJSONEnvelopeCompleteQuality(t *testing.T) {
	resolved := ResolveAll([]work.SavedItem{savedItem(1, "A")},
		map[int]*work.EnrichedWork{1: enrichedWork(1)})
	env := BuildJSONExport(resolved, testNow)
	if env.Metadata.DataQuality != "complete" {
		t.Errorf("data quality = %q, want complete", env.Metadata.DataQuality)
	}
	if env.ExportInfo.DataCompletenessRatio != "100.0%" {
		t.Errorf("ratio = %q", env.ExportInfo.DataCompletenessRatio)
	}
}

func TestRenderJSONIsValid(t *testing.T) {
	resolved := ResolveAll([]work.SavedItem{savedItem(1, "A")},
		map[int]*work.EnrichedWork{1: enrichedWork(1)})
	out, err := RenderJSON(resolved, testNow)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var env JSONExport
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if env.Works[0].ID != 1 {
		t.Errorf("decoded id = %d", env.Works[0].ID)
	}
}

func TestExportEmptyListWritesNothing(t *testing.T) {
	saver := &download.MemorySaver{}
	notifier := &recordingNotifier{}
	fetcher := &fakeFetcher{}
	e := New(fetcher, saver, WithNotifier(notifier), WithClock(func() time.Time { return testNow }))

	if err := e.Export(context.Background(), nil, FormatBibTeX); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if saver.Saves != 0 {
		t.Errorf("saves = %d, want 0", saver.Saves)
	}
	if fetcher.calls != 0 {
		t.Error("empty list must not trigger enrichment")
	}
	if !notifier.has(notify.Info, "Sua lista está vazia") {
		t.Errorf("notifications = %v", notifier.messages)
	}
}

func TestExportWritesNamedFile(t *testing.T) {
	saver := &download.MemorySaver{}
	notifier := &recordingNotifier{}
	fetcher := &fakeFetcher{records: map[int]*work.EnrichedWork{5: enrichedWork(5)}}
	e := New(fetcher, saver, WithNotifier(notifier), WithClock(func() time.Time { return testNow }))

	items := []work.SavedItem{savedItem(5, "x")}

	if err := e.Export(context.Background(), items, FormatBibTeX); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if saver.Filename != "bibliografia-2026-03-15.bib" {
		t.Errorf("filename = %q", saver.Filename)
	}
	if saver.MimeType != "text/plain" {
		t.Errorf("mime = %q", saver.MimeType)
	}
	if !notifier.has(notify.Success, "BibTeX") {
		t.Errorf("notifications = %v", notifier.messages)
	}

	if err := e.Export(context.Background(), items, FormatRIS); err != nil {
		t.Fatalf("Export ris: %v", err)
	}
	if saver.Filename != "referencias-expandido-2026-03-15.ris" {
		t.Errorf("filename = %q", saver.Filename)
	}

	if err := e.Export(context.Background(), items, FormatJSON); err != nil {
		t.Fatalf("Export json: %v", err)
	}
	if saver.MimeType != "application/json" {
		t.Errorf("mime = %q", saver.MimeType)
	}

	if err := e.Export(context.Background(), items, FormatABNT); err != nil {
		t.Fatalf("Export abnt: %v", err)
	}
	if saver.Filename != "referencias-abnt-2026-03-15.txt" {
		t.Errorf("filename = %q", saver.Filename)
	}
}

func TestExportNotifiesWhenEnrichmentFails(t *testing.T) {
	saver := &download.MemorySaver{}
	notifier := &recordingNotifier{}
	fetcher := &fakeFetcher{} // no records: every fetch fails
	e := New(fetcher, saver, WithNotifier(notifier), WithClock(func() time.Time { return testNow }))

	items := []work.SavedItem{savedItem(5, "Fallback Local")}
	if err := e.Export(context.Background(), items, FormatJSON); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !notifier.has(notify.Error, "Usando dados locais") {
		t.Errorf("notifications = %v", notifier.messages)
	}
	// The export still completes from local data.
	if saver.Saves != 1 {
		t.Errorf("saves = %d, want 1", saver.Saves)
	}
	var env JSONExport
	if err := json.Unmarshal(saver.Content, &env); err != nil {
		t.Fatalf("decoding export: %v", err)
	}
	if env.Works[0].Title != "Fallback Local" {
		t.Errorf("title = %q", env.Works[0].Title)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"abnt", "bibtex", "ris", "json"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Error("ParseFormat(docx) should fail")
	}
}

func TestAppendBibTeXSkipsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.bib")
	notifier := &recordingNotifier{}
	fetcher := &fakeFetcher{records: map[int]*work.EnrichedWork{5: enrichedWork(5)}}
	e := New(fetcher, &download.MemorySaver{}, WithNotifier(notifier),
		WithClock(func() time.Time { return testNow }))

	ctx := context.Background()
	items := []work.SavedItem{savedItem(5, "x"), savedItem(6, "Somente Local")}

	n, err := e.AppendBibTeX(ctx, items, path)
	if err != nil {
		t.Fatalf("AppendBibTeX: %v", err)
	}
	if n != 2 {
		t.Fatalf("appended = %d, want 2", n)
	}

	// Appending the same list again finds everything already present.
	n, err = e.AppendBibTeX(ctx, items, path)
	if err != nil {
		t.Fatalf("AppendBibTeX second: %v", err)
	}
	if n != 0 {
		t.Errorf("appended = %d on second run, want 0", n)
	}
	if !notifier.has(notify.Info, "já estão no arquivo") {
		t.Errorf("notifications = %v", notifier.messages)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := ParseBibTeX(strings.NewReader(string(data)))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("file holds %d entries, want 2", len(entries))
	}
}

func TestBibIndexMatchesByDOIThenKey(t *testing.T) {
	idx := NewBibIndex()
	idx.Add(BibEntry{Key: "outrachave", DOI: NormalizeDOI("https://doi.org/10.1590/S0100-85872020000100001")})

	withDOI := Resolve(savedItem(5, "x"), enrichedWork(5))
	if !idx.Has(&withDOI) {
		t.Error("DOI match should succeed despite differing citation keys")
	}

	local := Resolve(savedItem(6, "Somente Local"), nil)
	if idx.Has(&local) {
		t.Error("unindexed work should not match")
	}
	idx.Add(BibEntry{Key: CiteKey(&local)})
	if !idx.Has(&local) {
		t.Error("citation key fallback should match")
	}
}

func TestNormalizeDOI(t *testing.T) {
	for _, in := range []string{
		"10.1590/X123",
		"https://doi.org/10.1590/x123",
		"doi:10.1590/X123",
		"  10.1590/x123  ",
	} {
		if got := NormalizeDOI(in); got != "10.1590/x123" {
			t.Errorf("NormalizeDOI(%q) = %q", in, got)
		}
	}
}
