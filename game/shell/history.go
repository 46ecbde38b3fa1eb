package shell

// Navigate moves the history cursor and loads the selected entry into the
// input field. History itself is never modified.
func (sh *Shell) Navigate(dir Direction) {
	if len(sh.history) == 0 || sh.busy {
		return
	}
	last := len(sh.history) - 1

	switch dir {
	case HistoryUp:
		switch {
		case sh.cursor == NotBrowsing:
			sh.cursor = last
		case sh.cursor > 0:
			sh.cursor--
		}
	case HistoryDown:
		if sh.cursor >= last {
			sh.cursor = NotBrowsing
			sh.input = ""
			return
		}
		sh.cursor++
	default:
		return
	}

	sh.input = sh.history[sh.cursor]
}
