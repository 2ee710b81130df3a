package oshb

import (
	"bytes"
	_ "embed"
	"sort"
	"strconv"
	"sync"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/KeystoneBible/core/chiasm"
	"github.com/FocuswithJustin/KeystoneBible/core/errors"
	"github.com/FocuswithJustin/KeystoneBible/core/ref"
)

const psalterPath = "data/psalter.osis.xz"

// psalterXZ is the embedded sample psalter: OSHB-tagged psalms with verse
// glosses, compressed with xz.
//
//go:embed data/psalter.osis.xz
var psalterXZ []byte

var (
	psalterOnce sync.Once
	psalterErr  error
	psalter     map[int][]chiasm.PassageVerse
	psalterNums []int
)

// loadPsalter decompresses and parses the embedded psalter once, grouping
// its verses by psalm number.
func loadPsalter() {
	r, err := xz.NewReader(bytes.NewReader(psalterXZ))
	if err != nil {
		psalterErr = errors.NewIO("decompress", psalterPath, err)
		return
	}

	verses, err := parse(r, psalterPath)
	if err != nil {
		psalterErr = err
		return
	}

	psalter = make(map[int][]chiasm.PassageVerse)
	for _, v := range verses {
		vr, err := ref.Parse(v.Ref)
		if err != nil {
			psalterErr = &errors.ParseError{
				Format:  "OSIS",
				Path:    psalterPath,
				Message: "verse without a canonical reference",
				Err:     err,
			}
			return
		}
		if _, seen := psalter[vr.Chapter]; !seen {
			psalterNums = append(psalterNums, vr.Chapter)
		}
		psalter[vr.Chapter] = append(psalter[vr.Chapter], v)
	}
	sort.Ints(psalterNums)
}

// LoadPsalm returns the verses of one psalm from the embedded psalter.
// Unknown psalm numbers yield ErrNotFound.
func LoadPsalm(n int) ([]chiasm.PassageVerse, error) {
	psalterOnce.Do(loadPsalter)
	if psalterErr != nil {
		return nil, psalterErr
	}

	verses := psalter[n]
	if len(verses) == 0 {
		return nil, errors.NewNotFound("psalm", strconv.Itoa(n))
	}
	return append([]chiasm.PassageVerse(nil), verses...), nil
}

// Psalms lists the psalm numbers available in the embedded psalter, in
// ascending order.
func Psalms() ([]int, error) {
	psalterOnce.Do(loadPsalter)
	if psalterErr != nil {
		return nil, psalterErr
	}
	return append([]int(nil), psalterNums...), nil
}

// Source adapts the embedded psalter to callers that take a value, such as
// the API server's passage source.
type Source struct{}

// Psalms lists the embedded psalm numbers.
func (Source) Psalms() ([]int, error) {
	return Psalms()
}

// LoadPsalm returns one embedded psalm's verses.
func (Source) LoadPsalm(n int) ([]chiasm.PassageVerse, error) {
	return LoadPsalm(n)
}
