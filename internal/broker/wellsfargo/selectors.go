package wellsfargo

import "fmt"

// Locators for the current wellsfargo.com markup. These are
// configuration, not logic: a site redesign shows up as timed-out
// waits against these strings, never as a crash.
const loginURL = "https://connect.secure.wellsfargo.com/auth/login/present"

const (
	selUsername    = "#j_username"
	selPassword    = "#j_password"
	selLoginButton = ".Button__modern___cqCp7"

	selAuthPopup  = ".ResponsiveModalContent__modalContent___guT3p"
	authListClass = "LineItemLinkList__lineItemLinkList___Dj6vb"
	selCodeInput  = "#otp"
	selCodeSubmit = `//button[@type='submit']`

	// Post-login landmark confirming a fully authenticated state.
	selLandmark = `//a[text()='Locations']`

	selAccountBlocks = `li[data-testid^="WELLSTRADE"]`
	selMaskedNumber  = `[data-testid$="-masked-number"]`
	selBalance       = `[data-testid$="-balance"]`
	// Glyph the site masks account digits with.
	maskGlyph = "."

	selBrokerage    = "#BROKERAGE_LINK7P"
	selHoldingsLink = `//a[text()='Holdings Snapshot']`
	selPositions    = "#btnpositions"

	selHoldingsDropdown = "#dropdown1"
	holdingsListID      = "dropdownlist1"
	// Non-account rows at the top of the holdings selector.
	holdingsListOffset = 3

	selTradeMenu     = `//*[@id='trademenu']/span[1]`
	selTradeStocks   = "#linktradestocks"
	selTradeDropdown = "#dropdown2"
	tradeListID      = "dropdownlist2"
	selContinue      = "#btn-continue"

	buySellBtnID   = "BuySellBtn"
	selActionBuy   = `//a[text()='Buy']`
	selActionSell  = `//a[text()='Sell']`
	selReview      = "#actionbtnContinue"
	reviewID       = "actionbtnContinue"
	selSymbol      = "#Symbol"
	quantityCSS    = "#OrderQuantity"
	selQuote       = ".qeval"
	orderTypeBtnID = "OrderTypeBtnText"
	selPriceField  = "#Price"
	tifBtnID       = "TIFBtn"
	selDayTIF      = `//a[text()='Day']`
	selLimit       = `//a[text()='Limit']`
	selMarket      = `//a[text()='Market']`

	selSubmit     = ".btn-wfa-submit"
	selNextOrder  = ".btn-wfa-primary"
	selCancel     = "#actionbtnCancel"
	selOrderError = `//div[@class='alert-msg-summary']//p[1]`
)

// countListScript counts the entries of a selector dropdown.
func countListScript(listID string) string {
	return fmt.Sprintf("document.getElementById(%q).getElementsByTagName('li').length", listID)
}

// findListEntryScript linearly searches a dropdown for the entry whose
// text contains needle, clicks it and yields its index, or -1. The
// text match is authoritative; the index is informational.
func findListEntryScript(listID, needle string) string {
	return fmt.Sprintf(`(function() {
	var items = document.getElementById(%q).getElementsByTagName('li');
	for (var i = 0; i < items.length; i++) {
		if (items[i].innerText.includes(%q)) {
			items[i].click();
			return i;
		}
	}
	return -1;
})()`, listID, needle)
}

// selectPhoneScript clicks the 2FA device entry containing fragment.
func selectPhoneScript(fragment string) string {
	return fmt.Sprintf(`(function() {
	var list = document.getElementsByClassName(%q)[0];
	if (!list) { return -1; }
	var items = list.getElementsByTagName('li');
	for (var i = 0; i < items.length; i++) {
		if (items[i].innerText.includes(%q)) {
			items[i].click();
			return i;
		}
	}
	return -1;
})()`, authListClass, fragment)
}

// clickByIDScript clicks controls that ignore synthetic pointer
// events unless driven from page context.
func clickByIDScript(id string) string {
	return fmt.Sprintf("document.getElementById(%q).click()", id)
}

func clickBySelectorScript(sel string) string {
	return fmt.Sprintf("document.querySelector(%q).click()", sel)
}

func setQuantityScript(amount int) string {
	return fmt.Sprintf("document.querySelector(%q).value = %d", quantityCSS, amount)
}

func scrollIntoViewScript(id string) string {
	return fmt.Sprintf("document.getElementById(%q).scrollIntoView(true)", id)
}
