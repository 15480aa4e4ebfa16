package portal_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-poster/browser"
	"property-poster/config"
	"property-poster/interact"
	"property-poster/internal/metrics"
	"property-poster/internal/testhelpers"
	"property-poster/models"
	"property-poster/portal"
)

var (
	creds   = models.SiteCredentials{Username: "agent@example.com", Password: "s3cret"}
	listing = models.ListingDetails{
		Title:        "Test Flat",
		Description:  "Bright flat near the park",
		Price:        "50000",
		Bedrooms:     2,
		Bathrooms:    1,
		Area:         85.5,
		City:         "Tirana",
		PropertyType: "Apartment",
	}
)

type page struct {
	drv   *testhelpers.FakeDriver
	clock *testhelpers.FakeClock
	in    *interact.Interactor
	p     *portal.Portal
}

// newPage builds a page that satisfies every step of profile.
func newPage(t *testing.T, profile portal.Profile) *page {
	t.Helper()
	clock := testhelpers.NewFakeClock()
	drv := testhelpers.NewFakeDriver(clock)
	timing := config.Default().Timing

	testhelpers.StockPortalPage(drv, profile)

	return &page{
		drv:   drv,
		clock: clock,
		in:    interact.New(drv, clock, timing),
		p:     portal.New(profile, timing, interact.NewChallengeHandler(&bytes.Buffer{})),
	}
}

func (pg *page) post(l models.ListingDetails, c models.SiteCredentials) models.PostResult {
	return pg.p.Post(context.Background(), pg.in, l, c)
}

func writeImages(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("img%02d.jpg", i))
		require.NoError(t, os.WriteFile(paths[i], []byte("jpeg"), 0o600))
	}
	return paths
}

func TestNjoftimeSuccess(t *testing.T) {
	pg := newPage(t, portal.NjoftimeProfile())
	l := listing
	l.Images = writeImages(t, 2)
	confirmed := testutil.ToFloat64(metrics.Posts.WithLabelValues("njoftime.com", "confirmed"))
	uploaded := testutil.ToFloat64(metrics.ImagesUploaded.WithLabelValues("njoftime.com", "ok"))

	res := pg.post(l, creds)

	assert.Equal(t, confirmed+1, testutil.ToFloat64(metrics.Posts.WithLabelValues("njoftime.com", "confirmed")))
	assert.Equal(t, uploaded+2, testutil.ToFloat64(metrics.ImagesUploaded.WithLabelValues("njoftime.com", "ok")))
	assert.True(t, res.Success)
	assert.Equal(t, models.MsgPosted, res.Message)
	assert.Equal(t, models.OutcomeConfirmed, res.Outcome)
	assert.Equal(t, "https://njoftime.com/listing/42", res.ListingURL)
	assert.Equal(t, string(portal.StageConfirmed), res.Stage)
	assert.Equal(t, []string{"https://njoftime.com/login", "https://njoftime.com/post-ad"}, pg.drv.Navigations)

	assert.Equal(t, "agent@example.com", pg.drv.Element(browser.ID("email")).Value())
	assert.Equal(t, "Test Flat", pg.drv.Element(browser.ID("title")).Value())
	assert.Equal(t, "50000", pg.drv.Element(browser.ID("price")).Value())
	assert.Equal(t, 1, pg.drv.Element(browser.XPath("//a[contains(text(), 'Shtepi')]")).Clicks())
	assert.Len(t, pg.drv.Element(portal.NjoftimeProfile().ImageInput).Uploads(), 2)
}

func TestMerrjepFillsLocation(t *testing.T) {
	profile := portal.MerrjepProfile()
	pg := newPage(t, profile)

	res := pg.post(listing, creds)
	require.True(t, res.Success, res.Message)

	assert.Equal(t, "Tirana", pg.drv.Element(browser.ID("location")).Value())
	assert.Equal(t, 1, pg.drv.Element(browser.XPath("//ul[@id='locationlist']/li")).Clicks())
	for _, c := range profile.Categories {
		assert.Equal(t, 1, pg.drv.Element(c).Clicks(), c.String())
	}
}

func TestIndomioFieldsAndAddress(t *testing.T) {
	profile := portal.IndomioProfile()
	pg := newPage(t, profile)
	pg.drv.Element(profile.Submit).OnClick = func() {
		pg.drv.SetURL("https://indomio.al/property/991")
	}

	res := pg.post(listing, creds)
	require.True(t, res.Success, res.Message)

	assert.Equal(t, "Apartament", pg.drv.Element(browser.ID("property_type")).Selected())
	assert.Equal(t, "2", pg.drv.Element(browser.ID("bedrooms")).Value())
	assert.Equal(t, "1", pg.drv.Element(browser.ID("bathrooms")).Value())
	assert.Equal(t, "85.5", pg.drv.Element(browser.ID("area")).Value())
	assert.Equal(t, "https://indomio.al/property/991", res.ListingURL)
}

func TestIndomioAddressWithoutMarker(t *testing.T) {
	pg := newPage(t, portal.IndomioProfile())

	res := pg.post(listing, creds)
	require.True(t, res.Success)
	assert.Empty(t, res.ListingURL)
}

func TestMissingCredentials(t *testing.T) {
	for _, profile := range []portal.Profile{portal.NjoftimeProfile(), portal.MerrjepProfile(), portal.IndomioProfile()} {
		for name, c := range map[string]models.SiteCredentials{
			"none":        {},
			"no password": {Username: "agent"},
			"no username": {Password: "pw"},
		} {
			t.Run(profile.Site+"/"+name, func(t *testing.T) {
				pg := newPage(t, profile)

				res := pg.post(listing, c)

				assert.False(t, res.Success)
				assert.Equal(t, models.MsgLoginFailed, res.Message)
				assert.Equal(t, models.KindLoginFailure, res.ErrorKind)
				assert.Empty(t, pg.drv.Navigations)
				assert.Zero(t, pg.drv.Calls())
			})
		}
	}
}

func TestLoginIndicatorMissing(t *testing.T) {
	profile := portal.NjoftimeProfile()
	pg := newPage(t, profile)
	pg.drv.Remove(profile.Login.LoggedIn)

	res := pg.post(listing, creds)

	assert.False(t, res.Success)
	assert.Equal(t, models.MsgLoginFailed, res.Message)
	assert.Equal(t, string(portal.StageStart), res.Stage)
	assert.Equal(t, []string{"https://njoftime.com/login"}, pg.drv.Navigations)
	assert.GreaterOrEqual(t, pg.clock.Elapsed(), config.Default().Timing.LoginWait)
}

func TestImageCeilings(t *testing.T) {
	tests := []struct {
		profile portal.Profile
		max     int
	}{
		{portal.NjoftimeProfile(), 5},
		{portal.MerrjepProfile(), 10},
		{portal.IndomioProfile(), 15},
	}
	for _, tt := range tests {
		t.Run(tt.profile.Site, func(t *testing.T) {
			pg := newPage(t, tt.profile)
			l := listing
			l.Images = writeImages(t, 20)
			input := pg.drv.Element(tt.profile.ImageInput)
			input.UploadErrs = map[string]error{l.Images[1]: errors.New("upload rejected")}

			res := pg.post(l, creds)

			require.True(t, res.Success, res.Message)
			assert.Equal(t, l.Images[:tt.max], input.Uploads())
			assert.Equal(t, tt.max-1, pg.clock.CountSleeps(config.Default().Timing.UploadSettle))
		})
	}
}

func TestMissingImageFileSkipped(t *testing.T) {
	profile := portal.NjoftimeProfile()
	pg := newPage(t, profile)
	l := listing
	good := writeImages(t, 1)
	l.Images = []string{filepath.Join(t.TempDir(), "gone.jpg"), good[0]}

	res := pg.post(l, creds)

	require.True(t, res.Success)
	assert.Equal(t, good, pg.drv.Element(profile.ImageInput).Uploads())
}

func TestChallengeNotClearedSkipsSubmit(t *testing.T) {
	profile := portal.NjoftimeProfile()
	pg := newPage(t, profile)
	pg.drv.Add(browser.ID("captcha"), nil)

	res := pg.post(listing, creds)

	assert.False(t, res.Success)
	assert.Equal(t, models.MsgCaptchaFailed, res.Message)
	assert.Equal(t, models.KindCaptchaTimeout, res.ErrorKind)
	assert.Equal(t, string(portal.StageImagesUploaded), res.Stage)
	// the only click on the shared submit button was the login one
	assert.Equal(t, 1, pg.drv.Element(profile.Submit).Clicks())
}

func TestUnconfirmedSubmission(t *testing.T) {
	profile := portal.MerrjepProfile()
	pg := newPage(t, profile)
	pg.drv.Remove(profile.Success)
	unconfirmed := testutil.ToFloat64(metrics.Posts.WithLabelValues("merrjep.al", "unconfirmed"))

	res := pg.post(listing, creds)

	assert.Equal(t, unconfirmed+1, testutil.ToFloat64(metrics.Posts.WithLabelValues("merrjep.al", "unconfirmed")))
	assert.False(t, res.Success)
	assert.Equal(t, models.MsgUnconfirmed, res.Message)
	assert.Equal(t, models.OutcomeUnconfirmed, res.Outcome)
	assert.Equal(t, string(portal.StageSubmitted), res.Stage)
	assert.Empty(t, res.ListingURL)
}

func TestMissingFieldReportsError(t *testing.T) {
	profile := portal.IndomioProfile()
	pg := newPage(t, profile)
	pg.drv.Remove(browser.ID("bedrooms"))

	res := pg.post(listing, creds)

	assert.False(t, res.Success)
	assert.True(t, strings.HasPrefix(res.Message, models.MsgErrorPrefix), res.Message)
	assert.Contains(t, res.Message, "bedrooms")
	assert.Equal(t, models.KindElementNotFound, res.ErrorKind)
	assert.Equal(t, string(portal.StageOnPostForm), res.Stage)
}

func TestPanicBecomesFailedResult(t *testing.T) {
	pg := newPage(t, portal.NjoftimeProfile())
	pg.drv.OnNavigate = func(string) { panic("renderer crashed") }

	var res models.PostResult
	require.NotPanics(t, func() { res = pg.post(listing, creds) })

	assert.False(t, res.Success)
	assert.Equal(t, models.KindUnexpected, res.ErrorKind)
	assert.Contains(t, res.Message, "renderer crashed")
}

func TestDriverErrorBecomesFailedResult(t *testing.T) {
	profile := portal.NjoftimeProfile()
	pg := newPage(t, profile)
	pg.drv.Element(browser.XPath("//a[contains(text(), 'Shtepi')]")).ClickErr = errors.New("detached")

	res := pg.post(listing, creds)

	assert.False(t, res.Success)
	assert.Equal(t, models.KindClickInteraction, res.ErrorKind)
	assert.True(t, strings.HasPrefix(res.Message, models.MsgErrorPrefix))
}

func TestIndomioPropertyType(t *testing.T) {
	assert.Equal(t, "Apartament", portal.IndomioPropertyType("Apartment"))
	assert.Equal(t, "Apartament", portal.IndomioPropertyType(""))
	assert.Equal(t, "Vilë", portal.IndomioPropertyType(" villa "))
	assert.Equal(t, "Penthouse", portal.IndomioPropertyType("Penthouse"))
}
