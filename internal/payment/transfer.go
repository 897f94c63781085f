package payment

import "fmt"

// BankAccount holds the shop's bank transfer details shown to customers
// choosing "transferencia".
type BankAccount struct {
	Bank   string
	CVU    string
	Alias  string
	Holder string
}

// DefaultBankAccount is the shop's receiving account.
var DefaultBankAccount = BankAccount{
	Bank:   "Mercado Pago",
	CVU:    "0000003100013871174110",
	Alias:  "lalvarez99.mp",
	Holder: "Lucas Francisco Hector Alvarez Bernardez",
}

// TransferInstructions renders the static bank-transfer copy for an order.
// No external call is involved; the customer pays from their own bank app
// and sends the receipt over WhatsApp.
func TransferInstructions(account BankAccount, amount int64, orderNumber string) string {
	return fmt.Sprintf(`Para completar tu pago por transferencia:

1. Abre tu app bancaria
2. Transfiere $%d a:
   • Alias: %s
   • CVU: %s
3. Usa como referencia: Pedido #%s
4. Envía el comprobante por WhatsApp`,
		amount, account.Alias, account.CVU, orderNumber)
}
