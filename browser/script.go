package browser

// selectByTextJS runs with `this` bound to a <select>. It picks the option whose
// visible text matches and fires the events frameworks listen for.
const selectByTextJS = `function(text) {
	for (const opt of this.options) {
		if (opt.text.trim() === text) {
			this.value = opt.value;
			this.dispatchEvent(new Event('input', { bubbles: true }));
			this.dispatchEvent(new Event('change', { bubbles: true }));
			return true;
		}
	}
	return false;
}`
