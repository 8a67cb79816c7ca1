package interp

// Opcode byte values. spec.md's S1-S6 concrete scenarios pin eleven of
// these to literal bytes (sconst_m1=0x02, sconst_0=0x03, sconst_1=0x04,
// sspush=0x11, sadd=0x41, sdiv=0x47, sushr=0x51, ifeq=0x60, sreturn=0x78,
// newarray=0x90, arraylength=0x92); this table is built to satisfy those
// exactly and fills in every other mnemonic's byte value at this core's
// own discretion, since spec.md does not otherwise mandate one. Unused
// byte values between groups are reserved.
const (
	opNop = 0x00

	// Constants
	opAconstNull = 0x01
	opSconstM1   = 0x02
	opSconst0    = 0x03
	opSconst1    = 0x04
	opSconst2    = 0x05
	opSconst3    = 0x06
	opSconst4    = 0x07
	opSconst5    = 0x08
	opIconstM1   = 0x09
	opIconst0    = 0x0A
	opIconst1    = 0x0B
	opIconst2    = 0x0C
	opIconst3    = 0x0D
	opIconst4    = 0x0E
	opIconst5    = 0x0F
	opBspush     = 0x10
	opSspush     = 0x11
	opBipush     = 0x12
	opSipush     = 0x13
	opIipush     = 0x14

	// Local loads
	opAload  = 0x15
	opAload0 = 0x16
	opAload1 = 0x17
	opAload2 = 0x18
	opAload3 = 0x19
	opSload  = 0x1A
	opSload0 = 0x1B
	opSload1 = 0x1C
	opSload2 = 0x1D
	opSload3 = 0x1E
	opIload  = 0x1F
	opIload0 = 0x20
	opIload1 = 0x21
	opIload2 = 0x22
	opIload3 = 0x23

	// Local stores
	opAstore  = 0x24
	opAstore0 = 0x25
	opAstore1 = 0x26
	opAstore2 = 0x27
	opAstore3 = 0x28
	opSstore  = 0x29
	opSstore0 = 0x2A
	opSstore1 = 0x2B
	opSstore2 = 0x2C
	opSstore3 = 0x2D
	opIstore  = 0x2E
	opIstore0 = 0x2F
	opIstore1 = 0x30
	opIstore2 = 0x31
	opIstore3 = 0x32

	// Array access (narrow element ops; newarray/anewarray/arraylength
	// live further down, next to the arraylength anchor)
	opAaload  = 0x33
	opAastore = 0x34
	opBaload  = 0x35
	opBastore = 0x36
	opSaload  = 0x37
	opSastore = 0x38
	opIaload  = 0x39
	opIastore = 0x3A

	// Stack shuffling
	opPop   = 0x3B
	opPop2  = 0x3C
	opDup   = 0x3D
	opDup2  = 0x3E
	opDupX  = 0x3F
	opSwapX = 0x40

	// Arithmetic (short)
	opSadd  = 0x41 // anchor: S1
	opSsub  = 0x42
	opSmul  = 0x43
	opICmp  = 0x44
	opSneg  = 0x45
	opSshl  = 0x46
	opSdiv  = 0x47 // anchor: S2
	opSrem  = 0x48
	opSshr  = 0x49
	opSand  = 0x4A
	opSor   = 0x4B
	opSxor  = 0x4C
	opSinc  = 0x4D
	opS2b   = 0x4E
	opS2i   = 0x4F
	opI2s   = 0x50
	opSushr = 0x51 // anchor: S6

	// Arithmetic (int)
	opIadd  = 0x52
	opIsub  = 0x53
	opImul  = 0x54
	opIdiv  = 0x55
	opIrem  = 0x56
	opIneg  = 0x57
	opIshl  = 0x58
	opIshr  = 0x59
	opIushr = 0x5A
	opIand  = 0x5B
	opIor   = 0x5C
	opIxor  = 0x5D
	opIinc  = 0x5E
	opI2b   = 0x5F

	// Branches (narrow)
	opIfeq      = 0x60 // anchor: S3
	opIfne      = 0x61
	opIflt      = 0x62
	opIfge      = 0x63
	opIfgt      = 0x64
	opIfle      = 0x65
	opIfnull    = 0x66
	opIfnonnull = 0x67
	opIfAcmpeq  = 0x68
	opIfAcmpne  = 0x69
	opIfScmpeq  = 0x6A
	opIfScmpne  = 0x6B
	opIfScmplt  = 0x6C
	opIfScmpge  = 0x6D
	opIfScmpgt  = 0x6E
	opIfScmple  = 0x6F
	opGoto      = 0x70

	// Switches
	opStableswitch  = 0x71
	opItableswitch  = 0x72
	opSlookupswitch = 0x73
	opIlookupswitch = 0x74

	// Jump-subroutine, exception
	opJsr    = 0x75
	opRet    = 0x76
	opAthrow = 0x77

	// Return
	opSreturn = 0x78 // anchor: S1
	opAreturn = 0x79
	opIreturn = 0x7A
	opReturn  = 0x7B

	// Invocation
	opInvokevirtual   = 0x7C
	opInvokespecial   = 0x7D
	opInvokestatic    = 0x7E
	opInvokeinterface = 0x7F

	// Branches (wide)
	opIfeqW      = 0x80
	opIfneW      = 0x81
	opIfltW      = 0x82
	opIfgeW      = 0x83
	opIfgtW      = 0x84
	opIfleW      = 0x85
	opIfnullW    = 0x86
	opIfnonnullW = 0x87
	opIfAcmpeqW  = 0x88
	opIfAcmpneW  = 0x89
	opIfScmpeqW  = 0x8A
	opIfScmpneW  = 0x8B
	opIfScmpltW  = 0x8C
	opIfScmpgeW  = 0x8D
	opIfScmpgtW  = 0x8E
	opGotoW      = 0x8F

	// Object / type
	opNewarray   = 0x90 // anchor: S4
	opAnewarray  = 0x91
	opArraylen   = 0x92 // anchor: S4
	opIfScmpleW  = 0x93 // 17th wide-branch variant, out of sequence
	opCheckcast  = 0x94
	opInstanceof = 0x95
	opNew        = 0x96

	// Fields: narrow, _w, _this per width, plus static
	opGetfieldA     = 0x97
	opGetfieldAW    = 0x98
	opGetfieldAThis = 0x99
	opPutfieldA     = 0x9A
	opPutfieldAW    = 0x9B
	opPutfieldAThis = 0x9C
	opGetfieldB     = 0x9D
	opGetfieldBW    = 0x9E
	opGetfieldBThis = 0x9F
	opPutfieldB     = 0xA0
	opPutfieldBW    = 0xA1
	opPutfieldBThis = 0xA2
	opGetfieldS     = 0xA3
	opGetfieldSW    = 0xA4
	opGetfieldSThis = 0xA5
	opPutfieldS     = 0xA6
	opPutfieldSW    = 0xA7
	opPutfieldSThis = 0xA8
	opGetfieldI     = 0xA9
	opGetfieldIW    = 0xAA
	opGetfieldIThis = 0xAB
	opPutfieldI     = 0xAC
	opPutfieldIW    = 0xAD
	opPutfieldIThis = 0xAE

	opGetstaticA = 0xAF
	opPutstaticA = 0xB0
	opGetstaticB = 0xB1
	opPutstaticB = 0xB2
	opGetstaticS = 0xB3
	opPutstaticS = 0xB4
	opGetstaticI = 0xB5
	opPutstaticI = 0xB6

	// Misc
	opImpdep1 = 0xFE
	opImpdep2 = 0xFF
)
