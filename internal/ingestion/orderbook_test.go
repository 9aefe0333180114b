package ingestion

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/guttosm/tradebook/internal/domain/models"
	"github.com/guttosm/tradebook/internal/settlement"
)

func TestLoadOrderBook(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		wantLen   int
		wantErr   bool
		wantFirst string
	}{
		{
			name:      "envelope",
			body:      `{"status":true,"message":"SUCCESS","errorcode":"","data":[{"orderid":"O1","status":"complete"},{"orderid":"O2","status":"rejected"}]}`,
			wantLen:   2,
			wantFirst: "O1",
		},
		{
			name:    "envelope with null data",
			body:    `{"status":true,"message":"SUCCESS","data":null}`,
			wantLen: 0,
		},
		{
			name:      "bare array",
			body:      "  \n[{\"orderid\":123}]",
			wantLen:   1,
			wantFirst: "123",
		},
		{
			name:    "invalid json",
			body:    `{"status":`,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			p := writeFile(t, dir, "book.json", tc.body)

			got, err := LoadOrderBook(p)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadOrderBook: %v", err)
			}
			if len(got) != tc.wantLen {
				t.Fatalf("want %d records got %d", tc.wantLen, len(got))
			}
			if tc.wantFirst != "" && got[0].OrderID.String() != tc.wantFirst {
				t.Fatalf("first order id = %q want %q", got[0].OrderID.String(), tc.wantFirst)
			}
		})
	}
}

func TestLoadOrderBook_BrokerRejected(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "book.json", `{"status":false,"message":"Invalid Token","errorcode":"AG8001","data":null}`)

	_, err := LoadOrderBook(p)
	var be *BrokerError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BrokerError, got %v", err)
	}
	if be.Code != "AG8001" || be.Message != "Invalid Token" {
		t.Fatalf("unexpected broker error: %+v", be)
	}
}

func TestLoadOrderBook_MissingFile(t *testing.T) {
	if _, err := LoadOrderBook(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadOrderBook_RejectedOrderWithBlankFields(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "book.json", `{"status":true,"message":"SUCCESS","data":[
		{"status":"complete","filledshares":"5","transactiontype":"BUY","orderid":"O1",
		 "tradingsymbol":"TCS-EQ","exchange":"NSE","averageprice":3450.5,
		 "exchtime":"15-Sep-2025 10:14:03","producttype":"DELIVERY"},
		{"status":"rejected","filledshares":"0","transactiontype":"BUY","orderid":"O2",
		 "tradingsymbol":"INFY-EQ","exchange":"NSE","averageprice":"","exchtime":null,"producttype":0}
	]}`)

	records, err := LoadOrderBook(p)
	if err != nil {
		t.Fatalf("LoadOrderBook: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("want 2 records got %d", len(records))
	}

	res, err := settlement.New().Aggregate(records, models.AccountView{Label: "JPW", ClientCode: "J77302"}, settleDay)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(res.Buys) != 1 || res.Buys[0].SecurityID != "TCS" || res.Buys[0].Price.String() != "3450.5" {
		t.Fatalf("unexpected buys: %+v", res.Buys)
	}
}
