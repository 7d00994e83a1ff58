// Package ofx converts OFX/QFX bank statements into tally transactions.
package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/model"
)

// Parser reads OFX/QFX files. Imported rows land in the given default
// category; the sign of each statement amount decides the income/expense tag.
type Parser struct {
	defaultCategoryID int
}

// NewParser creates a parser that assigns imported rows to defaultCategoryID.
func NewParser(defaultCategoryID int) *Parser {
	return &Parser{defaultCategoryID: defaultCategoryID}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns transactions.
func (p *Parser) ParseFile(reader io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				transactions = append(transactions, p.convertTransaction(ofxTx))
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				transactions = append(transactions, p.convertTransaction(ofxTx))
			}
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

// convertTransaction maps one OFX row onto the tagged transaction model.
// OFX amounts are signed: credits become income, debits become expenses.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction) model.Transaction {
	amount := decimal.NewFromBigRat(&ofxTx.TrnAmt.Rat, 2)

	date := ofxTx.DtPosted.Time
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	description := p.extractDescription(ofxTx)

	trnType := fmt.Sprintf("%v", ofxTx.TrnType)

	var t model.Transaction
	if amount.IsNegative() {
		t = model.NewExpense(amount.Neg(), description, date, p.defaultCategoryID,
			paymentMethodFor(trnType), false)
	} else {
		t = model.NewIncome(amount, description, date, p.defaultCategoryID,
			incomeSourceFor(trnType))
	}

	// Re-imported files dedup on the statement's FITID, not the row id.
	t.ImportRef = string(ofxTx.FiTID)
	return t
}

// paymentMethodFor guesses a payment method from the OFX transaction type.
func paymentMethodFor(trnType string) model.PaymentMethod {
	switch trnType {
	case "ATM", "CASH":
		return model.PaymentCash
	case "CHECK", "XFER", "DIRECTDEBIT", "PAYMENT":
		return model.PaymentBankTransfer
	case "POS", "DEBIT":
		return model.PaymentDebitCard
	default:
		return model.PaymentOther
	}
}

// incomeSourceFor guesses an income source from the OFX transaction type.
func incomeSourceFor(trnType string) model.IncomeSource {
	switch trnType {
	case "DIRECTDEP":
		return model.SourceSalary
	case "INT", "DIV":
		return model.SourceInvestment
	default:
		return model.SourceOther
	}
}

// extractDescription tries to get a clean description from OFX data.
func (p *Parser) extractDescription(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)

	// Use MEMO field if NAME is generic
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Clean up date patterns like "MM/DD " at the beginning
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	if name == "" {
		name = "Imported transaction"
	}
	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
