package service

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

// minParagraph is the shortest paragraph kept by the plain-text fallback
const minParagraph = 10

// ParseThread extracts thread parts from a model reply. It reads the
// "tweets" array of the outermost JSON object; when that yields nothing it
// splits the reply into paragraphs. Parts are numbered "n/ " when the
// number is missing and cut to count.
func ParseThread(reply string, count int) []string {
	parts := fromJSON(reply)
	if len(parts) == 0 {
		parts = fromParagraphs(reply)
	}

	out := make([]string, 0, min(len(parts), count))
	for i, p := range parts {
		if i >= count {
			break
		}
		marker := strconv.Itoa(i+1) + "/"
		if !strings.Contains(p, marker) {
			p = marker + " " + p
		}
		out = append(out, p)
	}
	return out
}

// TotalCharacters sums part lengths in UTF-16 code units
func TotalCharacters(parts []string) int {
	total := 0
	for _, p := range parts {
		total += len(utf16.Encode([]rune(p)))
	}
	return total
}

func fromJSON(reply string) []string {
	block := jsonBlock.FindString(reply)
	if block == "" {
		return nil
	}
	var doc struct {
		Tweets []string `json:"tweets"`
	}
	if err := json.Unmarshal([]byte(block), &doc); err != nil {
		return nil
	}
	out := make([]string, 0, len(doc.Tweets))
	for _, t := range doc.Tweets {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func fromParagraphs(reply string) []string {
	var out []string
	for _, p := range strings.Split(reply, "\n\n") {
		if p = strings.TrimSpace(p); len([]rune(p)) > minParagraph {
			out = append(out, p)
		}
	}
	return out
}

// CleanReply trims a reply and drops a surrounding markdown code fence
func CleanReply(reply string) string {
	reply = strings.TrimSpace(reply)
	if !strings.HasPrefix(reply, "```") {
		return reply
	}
	lines := strings.Split(reply, "\n")
	if len(lines) < 3 {
		return reply
	}
	end := len(lines)
	if strings.HasPrefix(strings.TrimSpace(lines[end-1]), "```") {
		end--
	}
	return strings.TrimSpace(strings.Join(lines[1:end], "\n"))
}
