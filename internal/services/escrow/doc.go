/*
Package escrow keeps the money of a rental between confirmation and
completion.

Every escrow transaction follows one state machine:

	created -> held -> released
	                -> refunded

Hold authorizes the renter's payment with the PaymentGateway, Release
captures it for the vendor and Refund voids it back to the renter. Each
transition happens inside Repository.Transition, so concurrent requests for
the same escrow are serialised on its row and exactly one of them wins.
Every transition appends an EscrowEvent.

Errors:
  - ErrEscrowNotFound: no escrow with that id
  - ErrInvalidStateTransition: the escrow is not in a state that allows the
    operation, including a second hold or any move out of released/refunded
  - ErrPaymentCaptureFailed: the gateway refused the hold; the escrow stays created
  - ErrSettlementFailed: the gateway refused capture or void; the escrow stays held
*/
package escrow
