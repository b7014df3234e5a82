package enrich

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/model"
)

// Provenance tags leads with where and how they were found.
type Provenance struct {
	Source   string
	Query    string
	Location string
}

// Enricher runs the website extractors for discovered candidates. One
// instance per run; it owns the in-run processed-website set.
type Enricher struct {
	fetcher    Fetcher
	industries []IndustryRule
	prov       Provenance
	processed  map[string]struct{}
}

// New creates an Enricher. A nil industry table falls back to the default.
func New(fetcher Fetcher, industries []IndustryRule, prov Provenance) *Enricher {
	if industries == nil {
		industries = DefaultIndustryTable()
	}
	return &Enricher{
		fetcher:    fetcher,
		industries: industries,
		prov:       prov,
		processed:  make(map[string]struct{}),
	}
}

// BasicLead synthesizes a lead from discovery fields alone, used when the
// candidate has no website or enrichment is disabled.
func (e *Enricher) BasicLead(c model.Candidate) *model.Lead {
	return &model.Lead{
		CompanyName:    c.Name,
		WebsiteURL:     c.Website,
		Phone:          c.Phone,
		Location:       c.Location(),
		Source:         e.prov.Source,
		SearchQuery:    e.prov.Query,
		SearchLocation: e.prov.Location,
		ScrapedAt:      time.Now().UTC(),
	}
}

// Enrich visits the candidate's website and fills the lead's contact,
// classification, and quality fields. Returns nil when the website was
// already processed this run. Extractor failures are recorded on the lead;
// enrichment itself never fails.
func (e *Enricher) Enrich(ctx context.Context, c model.Candidate) *model.Lead {
	if _, done := e.processed[c.Website]; done {
		zap.L().Info("enrich: website already processed this run",
			zap.String("website", c.Website),
		)
		return nil
	}
	e.processed[c.Website] = struct{}{}

	log := zap.L().With(zap.String("company", c.Name), zap.String("website", c.Website))
	log.Info("enrich: starting")

	lead := e.BasicLead(c)

	fail := func(field string, err error) {
		lead.Errors = append(lead.Errors, field+": "+err.Error())
		log.Warn("enrich: extractor failed", zap.String("field", field), zap.Error(err))
	}

	page, err := e.fetcher.Fetch(ctx, c.Website)
	if err != nil {
		// No page at all: every extractor takes its failure default.
		fail("fetch", err)
		lead.Industry = IndustryUnknown
		q := failedQuality()
		lead.QualityScore = &q.Score
		lead.QualityRating = q.Rating
		lead.NeedsBranding = q.NeedsBranding
		return lead
	}

	if email, err := ExtractEmail(page); err != nil {
		fail("email", err)
	} else {
		lead.Email = email
	}

	if lead.Phone == "" {
		if phone, err := ExtractPhone(page); err != nil {
			fail("phone", err)
		} else {
			lead.Phone = phone
		}
	}

	if social, err := ExtractSocialLinks(page); err != nil {
		fail("social", err)
	} else {
		lead.LinkedIn = social.LinkedIn
		lead.Facebook = social.Facebook
		lead.Twitter = social.Twitter
		lead.Instagram = social.Instagram
	}

	industry, err := ClassifyIndustry(page, e.industries)
	if err != nil {
		fail("industry", err)
	}
	lead.Industry = industry

	quality, err := AssessQuality(page)
	if err != nil {
		fail("quality", err)
	}
	lead.QualityScore = &quality.Score
	lead.QualityRating = quality.Rating
	lead.NeedsBranding = quality.NeedsBranding

	if dm, err := FindDecisionMaker(ctx, page, e.fetcher); err != nil {
		fail("decision maker", err)
	} else if dm != nil {
		lead.DecisionMakerName = dm.Name
		lead.DecisionMakerRole = dm.Role
	}

	log.Info("enrich: done",
		zap.Bool("email", lead.Email != ""),
		zap.String("industry", lead.Industry),
		zap.Int("quality", quality.Score),
		zap.Int("errors", len(lead.Errors)),
	)
	return lead
}
