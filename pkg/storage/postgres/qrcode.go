package postgres

import (
	"accessgate/pkg/domain"
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

const (
	qrCodesTable = "qr_codes"
)

// StoreQRCodes inserts the given documents. Missing ValidFrom defaults to the
// insert time.
func (p *PgSQL) StoreQRCodes(ctx context.Context, codes ...domain.QRCode) ([]domain.QRCode, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	rows := make([]PgQRCode, len(codes))
	for i := range codes {
		if codes[i].ID == "" {
			return nil, fmt.Errorf("qr code %d has no id", i)
		}
		rows[i].FromDomain(codes[i])
	}

	records := make([]goqu.Record, len(rows))
	for i, row := range rows {
		rec := goqu.Record{
			"id":          row.ID,
			"owner_uid":   row.OwnerUID,
			"guest_name":  row.GuestName,
			"purpose":     row.Purpose,
			"valid_until": row.ValidUntil,
			"revoked_at":  row.RevokedAt,
			"valid_from":  goqu.L("CURRENT_TIMESTAMP"),
		}
		if !row.ValidFrom.IsZero() {
			rec["valid_from"] = row.ValidFrom
		}
		records[i] = rec
	}

	var result []PgQRCode
	if err := p.Builder.Insert(qrCodesTable).
		Rows(records).
		Returning(&PgQRCode{}).
		Executor().ScanStructsContext(ctx, &result); err != nil {
		return nil, fmt.Errorf("could not store qr codes into pg: %w", err)
	}

	out := make([]domain.QRCode, 0, len(result))
	for i := range result {
		out = append(out, *result[i].ToDomain())
	}

	return out, nil
}

// QRCodeByID returns a document by its id.
func (p *PgSQL) QRCodeByID(ctx context.Context, id string) (*domain.QRCode, error) {
	var row PgQRCode
	found, err := p.Builder.From(qrCodesTable).
		Where(goqu.I("id").Eq(id)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch qr code by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}
