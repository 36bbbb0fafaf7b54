// README: Surrogate integer keys shared by all modules.
package types

import "strconv"

type ID int64

func ParseID(s string) (ID, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return ID(n), true
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
