package grubcounter

// Locator maintains a cached node address across repeated polls of one
// attached process, validating it on every call and falling back to a
// full scan when validation fails. It is single-owner: callers must not
// invoke Poll concurrently on the same Locator.
type Locator struct {
	process *ProcessHandle
	opts    ScanOptions
	cache   LocatorCache
}

// NewLocator attaches to processName and returns a Locator starting in
// the Cold state. The caller owns the returned Locator's process handle
// and must call Close when done.
func NewLocator(processName string, opts ScanOptions) (*Locator, error) {
	p, err := Attach(processName)
	if err != nil {
		return nil, err
	}
	return &Locator{process: p, opts: opts}, nil
}

// Close releases the underlying process handle.
func (l *Locator) Close() error {
	return l.process.Close()
}

// Poll returns the current counter value, using the cached address when
// Warm and validated, or performing a full scan when Cold or when
// validation fails: a read failure, a value that went backward, or a
// jump of more than one, all invalidate the cache and trigger a rescan
// within the same call.
func (l *Locator) Poll() (uint32, error) {
	if !l.cache.set {
		return l.rescan()
	}

	if l.cache.lastValue == 0 {
		// A dead node that also reads zero is indistinguishable from
		// the live one; re-validate from scratch rather than trust a
		// zero-valued cache.
		l.cache = LocatorCache{}
		return l.rescan()
	}

	v, ok := readU32(l.process, uint32(l.cache.address)+valueOffset)
	if !ok {
		l.cache = LocatorCache{}
		return l.rescan()
	}

	if v < l.cache.lastValue || v > l.cache.lastValue+1 {
		l.cache = LocatorCache{}
		return l.rescan()
	}

	l.cache.lastValue = v
	return v, nil
}

func (l *Locator) rescan() (uint32, error) {
	c, err := Scan(l.process, l.opts)
	if err != nil {
		return 0, err
	}

	l.cache = LocatorCache{set: true, address: c.Address, lastValue: c.Value}
	return c.Value, nil
}
