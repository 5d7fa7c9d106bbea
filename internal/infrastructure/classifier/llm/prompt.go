package llm

import (
	"fmt"
	"strings"

	"github.com/drewherron/llm-librarian/internal/core/domain"
	"github.com/drewherron/llm-librarian/internal/core/instructions"
)

func buildSinglePrompt(record *domain.EbookRecord, existing []string, ins *instructions.Instructions) string {
	var b strings.Builder
	b.WriteString("You are a librarian organizing an ebook collection.\n\n")
	writeBookData(&b, record)

	b.WriteString("\nYour tasks:\n")
	b.WriteString("1. Determine the book's exact title.\n")
	b.WriteString("2. Determine the author's name.\n")
	b.WriteString("3. Determine the four-digit publication year, or Unknown.\n")
	b.WriteString("4. Write a one or two sentence summary of the book.\n")
	b.WriteString("5. Assign a subject category. Categories may be hierarchical, ")
	b.WriteString("with levels separated by \"/\" (for example Technology/Python).\n")

	writeExistingCategories(&b, existing, ins)
	writeInstructions(&b, ins)

	b.WriteString("\nRespond with exactly these lines and nothing else:\n")
	b.WriteString("Title: <title>\n")
	b.WriteString("Author: <author>\n")
	b.WriteString("Year: <year>\n")
	b.WriteString("Summary: <summary>\n")
	b.WriteString("Category: <category>\n")
	return b.String()
}

func buildBatchPrompt(records []*domain.EbookRecord, existing []string, ins *instructions.Instructions) string {
	var b strings.Builder
	b.WriteString("You are a librarian organizing an ebook collection. ")
	fmt.Fprintf(&b, "Classify the following %d books.\n\n", len(records))

	for i, record := range records {
		fmt.Fprintf(&b, "BOOK %d:\n", i+1)
		writeBookData(&b, record)
		b.WriteString("\n")
	}

	b.WriteString("For every book determine the title, author, four-digit publication year ")
	b.WriteString("(or Unknown), a one or two sentence summary, and a subject category. ")
	b.WriteString("Categories may be hierarchical, with levels separated by \"/\".\n")

	writeExistingCategories(&b, existing, ins)
	writeInstructions(&b, ins)

	fmt.Fprintf(&b, "\nRespond for books 1 through %d, in order, using exactly this format:\n", len(records))
	b.WriteString("---BOOK 1 START---\n")
	b.WriteString("Title: <title>\n")
	b.WriteString("Author: <author>\n")
	b.WriteString("Year: <year>\n")
	b.WriteString("Summary: <summary>\n")
	b.WriteString("Category: <category>\n")
	b.WriteString("---BOOK 1 END---\n")
	return b.String()
}

func writeBookData(b *strings.Builder, record *domain.EbookRecord) {
	fmt.Fprintf(b, "Filename: %s\n", record.Path)
	if record.Title != "" {
		fmt.Fprintf(b, "Title (from metadata): %s\n", record.Title)
	}
	if record.Author != "" {
		fmt.Fprintf(b, "Author (from metadata): %s\n", record.Author)
	}
	if record.Subject != "" {
		fmt.Fprintf(b, "Subject: %s\n", record.Subject)
	}
	if record.Keywords != "" {
		fmt.Fprintf(b, "Keywords: %s\n", record.Keywords)
	}
	if record.Year != "" {
		fmt.Fprintf(b, "Year (from metadata): %s\n", record.Year)
	}
	if record.NumPages > 0 {
		fmt.Fprintf(b, "Pages: %d\n", record.NumPages)
	}
	if record.ExtractedText != "" {
		fmt.Fprintf(b, "Text sample:\n%s\n", record.ExtractedText)
	}
}

func writeExistingCategories(b *strings.Builder, existing []string, ins *instructions.Instructions) {
	if len(existing) == 0 {
		return
	}
	if ins != nil && ins.Mode == instructions.ModeCustom {
		return
	}
	b.WriteString("\nPrefer one of these existing categories when it fits, ")
	b.WriteString("instead of inventing a near-duplicate:\n")
	for _, category := range existing {
		fmt.Fprintf(b, "- %s\n", category)
	}
}

func writeInstructions(b *strings.Builder, ins *instructions.Instructions) {
	if ins == nil || strings.TrimSpace(ins.Text) == "" {
		return
	}
	b.WriteString("\nAdditional instructions from the user. ")
	b.WriteString("These override anything stated above:\n")
	b.WriteString(strings.TrimSpace(ins.Text))
	b.WriteString("\n")
}
