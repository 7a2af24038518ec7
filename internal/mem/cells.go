package mem

// DefaultPageSize provides a default for Cells.PageSize.
const DefaultPageSize = 256

// Cells implements a paged memory of signed 64-bit cells.
// Any address not yet stored to reads as 0; storing anywhere allocates only
// the page(s) covering the stored range.
type Cells struct {
	PagedCore
	pages [][]int64
}

// Size returns an address one position higher than the last position in the
// last page allocated so far.
func (m *Cells) Size() uint {
	if i := len(m.bases) - 1; i >= 0 {
		return m.bases[i] + uint(len(m.pages[i]))
	}
	return 0
}

// Load returns a single value from the given address.
// Unallocated pages are left unallocated, resulting in implicit 0 values.
// Returns an error if addr exceeds any Limit.
func (m *Cells) Load(addr uint) (int64, error) {
	if err := m.checkLimit(addr, "load"); err != nil {
		return 0, err
	}

	if len(m.pages) == 0 {
		return 0, nil
	}

	pageID := m.findPage(addr)
	base := m.bases[pageID]
	page := m.pages[pageID]
	if addr >= base {
		if i := addr - base; i < uint(len(page)) {
			return page[i], nil
		}
	}

	return 0, nil
}

// LoadInto reads len(buf) values from memory starting at addr.
// Skips any unallocated pages, zeroing the result buffer where encountered.
// Returns an error if Limit would be exceeded; no partial load is done.
func (m *Cells) LoadInto(addr uint, buf []int64) error {
	if len(buf) == 0 {
		return nil
	}

	end := addr + uint(len(buf))
	if err := m.checkLimit(end, "load"); err != nil {
		return err
	}

	for pageID := m.findPage(addr); addr < end && pageID < len(m.bases); pageID++ {
		base := m.bases[pageID]
		if base >= end {
			break
		}

		if base > addr {
			skip := base - addr
			for i := range buf[:skip] {
				buf[i] = 0
			}
			buf = buf[skip:]
			addr = base
		}

		page := m.pages[pageID]
		if skip := addr - base; skip > 0 {
			if skip >= uint(len(page)) {
				continue
			}
			page = page[skip:]
		}

		n := copy(buf, page)
		buf = buf[n:]
		addr += uint(n)
	}

	for i := range buf {
		buf[i] = 0
	}

	return nil
}

// Stor stores any values at addr, allocating pages if necessary.
// Returns an error if Limit would be exceeded; no partial store is done.
func (m *Cells) Stor(addr uint, values ...int64) error {
	if len(values) == 0 {
		return nil
	}

	end := addr + uint(len(values))
	if err := m.checkLimit(end, "stor"); err != nil {
		return err
	}

	if m.PageSize == 0 {
		m.PageSize = DefaultPageSize
	}

	for pageID := m.findPage(addr); addr < end; pageID++ {
		base, size, page := m.allocPage(pageID, addr)
		if addr < base || addr-base >= size {
			continue
		}
		n := copy(page[addr-base:], values)
		values = values[n:]
		addr += uint(n)
	}

	m.extend(end)
	return nil
}

// Spans calls each with every maximal run of allocated addresses, in address
// order, as the half-open range [base, end). Iteration stops early if each
// returns false.
func (m *Cells) Spans(each func(base, end uint) bool) {
	for i := 0; i < len(m.bases); {
		base, end := m.bases[i], m.bases[i]+uint(len(m.pages[i]))
		for i++; i < len(m.bases) && m.bases[i] == end; i++ {
			end += uint(len(m.pages[i]))
		}
		if !each(base, end) {
			return
		}
	}
}

// Grow extends the logical length of memory to at least n cells, allocating
// zero-filled pages to cover any newly reachable addresses.
// Returns an error if Limit would be exceeded.
func (m *Cells) Grow(n uint) error {
	if n <= m.hi {
		return nil
	}
	if err := m.checkLimit(n, "grow"); err != nil {
		return err
	}

	if m.PageSize == 0 {
		m.PageSize = DefaultPageSize
	}

	addr := m.hi
	for pageID := m.findPage(addr); addr < n; pageID++ {
		base, size, _ := m.allocPage(pageID, addr)
		if end := base + size; addr < end {
			addr = end
		}
	}

	m.extend(n)
	return nil
}

func (m *Cells) allocPage(pageID int, addr uint) (base, size uint, page []int64) {
	base, size, isNew := m.PagedCore.allocPage(pageID, addr)
	if isNew {
		page = make([]int64, size)
		if pageID == len(m.pages) {
			m.pages = append(m.pages, page)
		} else {
			m.pages = append(m.pages, nil)
			copy(m.pages[pageID+1:], m.pages[pageID:])
			m.pages[pageID] = page
		}
	} else {
		page = m.pages[pageID]
	}
	return base, size, page
}
