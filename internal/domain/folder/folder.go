package folder

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/drillroom/backend/internal/domain/questionbank"
)

// Folder groups related banks together, one directory of the data dir.
// Data dir → Folders → Banks → Questions.
type Folder struct {
	Name  string
	Banks []*questionbank.Bank
}

// New creates a Folder with its banks in chapter order.
func New(name string, banks []*questionbank.Bank) *Folder {
	f := &Folder{Name: name, Banks: banks}
	SortBanks(f.Banks)
	return f
}

const unknownChapter = 999

var chapterPattern = regexp.MustCompile(`第(.+?)章`)

var chineseDigits = map[rune]int{
	'零': 0, '一': 1, '二': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9, '十': 10,
}

// ChapterOrder returns a sort key for a bank display name.
// "导论" (introduction) sorts first, "第N章" sorts by N where N is Arabic or
// a Chinese numeral up to 九十九, anything else sorts last.
func ChapterOrder(name string) int {
	if strings.Contains(name, "导论") {
		return 0
	}

	m := chapterPattern.FindStringSubmatch(name)
	if m == nil {
		return unknownChapter
	}
	num := m[1]

	if n, err := strconv.Atoi(num); err == nil {
		return n
	}

	r := []rune(num)
	digit := func(c rune) int {
		if v, ok := chineseDigits[c]; ok {
			return v
		}
		return 0
	}

	switch {
	case len(r) == 1:
		if v, ok := chineseDigits[r[0]]; ok {
			return v
		}
	case len(r) == 2 && r[0] == '十':
		return 10 + digit(r[1])
	case len(r) == 2 && r[1] == '十':
		return digit(r[0]) * 10
	case len(r) == 3 && r[1] == '十':
		return digit(r[0])*10 + digit(r[2])
	}
	return unknownChapter
}

// SortBanks orders banks by chapter, then by display name.
func SortBanks(banks []*questionbank.Bank) {
	sort.SliceStable(banks, func(i, j int) bool {
		oi, oj := ChapterOrder(banks[i].DisplayName), ChapterOrder(banks[j].DisplayName)
		if oi != oj {
			return oi < oj
		}
		return banks[i].DisplayName < banks[j].DisplayName
	})
}
