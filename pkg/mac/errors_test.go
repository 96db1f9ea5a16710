package mac

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iromero91/emac.go/pkg/hw"
)

func TestErrorString(t *testing.T) {
	require.Equal(t, "emac: busy", newError(ErrBusy, 0).Error())
	require.Equal(t, "emac: crc (status 0x404)", newError(ErrCrc, 0x404).Error())
	require.Equal(t, "unspecified", ErrUnspecified.String())
	require.Equal(t, "unspecified", ErrorCode(0xffff).String())
	require.Equal(t, "unsupported-802.3-frame", ErrUnsupported8023Frame.String())
}

func TestIsCode(t *testing.T) {
	require.True(t, IsCode(newError(ErrTooBig, 0), ErrTooBig))
	require.False(t, IsCode(newError(ErrTooBig, 0), ErrBusy))
	require.False(t, IsCode(ErrNotStarted, ErrBusy))
	require.False(t, IsCode(nil, ErrBusy))
}

func TestRxStatusError(t *testing.T) {
	for _, c := range []struct {
		status hw.RxStatus
		code   ErrorCode
	}{
		{hw.RxErrorSummary | hw.RxCRCError, ErrCrc},
		{hw.RxErrorSummary | hw.RxCRCError | hw.RxOverflow, ErrCrc},
		{hw.RxErrorSummary | hw.RxOverflow, ErrOverflow},
		{hw.RxErrorSummary | hw.RxTruncated, ErrTruncated},
		{hw.RxErrorSummary | hw.RxWatchdog, ErrWatchdogTimeout},
		{hw.RxErrorSummary | hw.RxLateCollision, ErrLateCollision},
		{hw.RxErrorSummary | hw.RxIPHeaderChecksum, ErrIPHeaderChecksum},
		{hw.RxErrorSummary | hw.RxHeaderError, ErrHeader},
		{hw.RxErrorSummary | hw.RxPayloadError, ErrPayload},
		{hw.RxErrorSummary, ErrReceive},
	} {
		e := rxStatusError(c.status)
		require.Equal(t, c.code, e.Code, c.status)
		require.Equal(t, uint32(c.status), e.Cause)
	}
}

func TestTxStatusError(t *testing.T) {
	for _, c := range []struct {
		status hw.TxStatus
		code   ErrorCode
	}{
		{hw.TxErrorSummary | hw.TxUnderflow, ErrTransmitUnderflow},
		{hw.TxErrorSummary | hw.TxJabberTimeout, ErrTransmitJabberTimeout},
		{hw.TxErrorSummary | hw.TxLateCollision, ErrLateCollision},
		{hw.TxErrorSummary | hw.TxNoCarrier, ErrTransmit},
		{hw.TxErrorSummary | hw.TxExcessiveCollisions, ErrTransmit},
		{hw.TxErrorSummary, ErrTransmit},
	} {
		e := txStatusError(c.status)
		require.Equal(t, c.code, e.Code, c.status)
		require.Equal(t, uint32(c.status), e.Cause)
	}
}

func TestDmaErrorCode(t *testing.T) {
	for bit, code := range map[hw.DMAStatus]ErrorCode{
		hw.DMATransmitStopped:          ErrTransmitProcessStopped,
		hw.DMATransmitJabber:           ErrTransmitJabberTimeout,
		hw.DMAReceiveOverflow:          ErrReceiveOverflow,
		hw.DMATransmitUnderflow:        ErrTransmitUnderflow,
		hw.DMAReceiveBufferUnavailable: ErrReceiveBufferUnavailable,
		hw.DMAReceiveStopped:           ErrReceiveProcessStopped,
		hw.DMAReceiveWatchdog:          ErrReceiveWatchdogTimeout,
		hw.DMAFatalBusError:            ErrFatalBusError,
		hw.DMALateCollision:            ErrLateCollision,
	} {
		require.Equal(t, code, dmaErrorCode(bit), bit.String())
	}
	require.Equal(t, ErrUnspecified, dmaErrorCode(hw.DMAReceiveDone))
}
