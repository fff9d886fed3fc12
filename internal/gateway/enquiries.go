package gateway

import (
	"context"

	"gorm.io/datatypes"

	"realty_gateway/internal/backend"
	"realty_gateway/internal/model"
)

// SubmitEnquiry stores the enquiry and notifies the agent. When it names a
// property, that property's enquiries_count is bumped as well. Neither step
// can turn a stored enquiry into a failure.
func (g *Gateway) SubmitEnquiry(ctx context.Context, e model.EnquiryData) (out Outcome) {
	defer g.recoverOp("submit_enquiry", func() {})
	log := g.log.With("op", "submit_enquiry", "table", backend.TableEnquiries)

	details := map[string]interface{}{}
	if label := deref(e.Property); label != "" {
		details["property"] = label
	}
	row := backend.Row{
		"name":             e.Name,
		"email":            e.Email,
		"phone":            e.Phone,
		"message":          nilIfEmpty(e.Message),
		"property_id":      nilIfEmpty(e.PropertyID),
		"property_details": details,
	}

	if err := g.tables.Insert(ctx, backend.TableEnquiries, row); err != nil {
		log.Error("Could not submit enquiry", "error", err)
		return Outcome{}
	}
	out.OK = true
	log.Info("Enquiry submitted")

	if id := deref(e.PropertyID); id != "" {
		if err := g.incrementCounter(ctx, id, "enquiries_count"); err != nil {
			log.Warn("Could not increment enquiry count", "property_id", id, "error", err)
			out.addSecondary(StepIncrementEnquiries, err)
		}
	}

	if g.notifier != nil {
		if err := g.notifier.NotifyEnquiry(ctx, e); err != nil {
			log.Warn("Could not send enquiry notification", "error", err)
			out.addSecondary(StepNotifyAgent, err)
		}
	}

	return out
}

// FetchEnquiries returns every stored enquiry, newest first.
func (g *Gateway) FetchEnquiries(ctx context.Context) (records []datatypes.JSONMap) {
	defer g.recoverOp("fetch_enquiries", func() { records = []datatypes.JSONMap{} })
	return g.fetchRecords(ctx, "fetch_enquiries", backend.Query{
		Table: backend.TableEnquiries,
		Order: newestFirst,
	})
}

func (g *Gateway) fetchRecords(ctx context.Context, op string, q backend.Query) []datatypes.JSONMap {
	log := g.log.With("op", op, "table", q.Table)

	rows, err := g.tables.Select(ctx, q)
	if err != nil {
		log.Error("Could not fetch records", "error", err)
		return []datatypes.JSONMap{}
	}

	records := make([]datatypes.JSONMap, 0, len(rows))
	for _, r := range rows {
		records = append(records, recordFromRow(r))
	}
	log.Info("Fetched records", "count", len(records))
	return records
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nilIfEmpty(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
